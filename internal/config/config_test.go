package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SPOTIFY_ID", "SPOTIFY_SECRET", "SOUNDCLOUD_CLIENT_ID",
		"MUSICBRAINZ_USER_AGENT", "MUSIC_TAGGER_DB", "LOG_LEVEL", "PORT",
	} {
		t.Setenv(key, "")
	}
	// keep a stray .env in the repository from leaking into the test
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)

	want := Default()
	assert.Equal(t, want.Matching, cfg.Matching)
	assert.Equal(t, KnownSources, cfg.Sources.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Identify.Workers)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[matching]
threshold = 0.85
min_threshold = 0.5
limit = 3

[sources]
enabled = ["MusicBrainz", " spotify ", "musicbrainz"]

[sources.spotify]
client_id = "file-id"
client_secret = "file-secret"

[server]
port = ":9000"

[logging]
level = "DEBUG"
format = "json"
`)
	t.Setenv("SPOTIFY_ID", "env-id")
	t.Setenv("MUSIC_TAGGER_DB", "/tmp/registry.db")

	cfg, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, 0.85, cfg.Matching.Threshold)
	assert.Equal(t, 0.5, cfg.Matching.MinThreshold)
	assert.Equal(t, 3, cfg.Matching.Limit)
	assert.Equal(t, defaultDurationTolerance, cfg.Matching.DurationTolerance)
	assert.Equal(t, []string{"musicbrainz", "spotify"}, cfg.Sources.Enabled)
	assert.Equal(t, "env-id", cfg.Sources.Spotify.ClientID)
	assert.Equal(t, "file-secret", cfg.Sources.Spotify.ClientSecret)
	assert.Equal(t, "/tmp/registry.db", cfg.Registry.Path)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	mc := cfg.MatcherConfig()
	assert.Equal(t, 0.85, mc.Threshold)
	assert.Equal(t, 3, mc.Limit)
	assert.Equal(t, cfg.Scorer(), mc.Scorer)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[matching]\nthreshhold = 0.8\n")
	_, _, _, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"threshold above one":     func(c *Config) { c.Matching.Threshold = 1.2 },
		"zero min similarity":     func(c *Config) { c.Matching.MinSimilarity = 0 },
		"min above threshold":     func(c *Config) { c.Matching.MinThreshold = 0.95 },
		"negative tolerance":      func(c *Config) { c.Matching.DurationTolerance = -1 },
		"zero limit":              func(c *Config) { c.Matching.Limit = 0 },
		"no sources":              func(c *Config) { c.Sources.Enabled = nil },
		"unknown source":          func(c *Config) { c.Sources.Enabled = []string{"deezer"} },
		"spotify id only":         func(c *Config) { c.Sources.Spotify.ClientID = "id" },
		"zero workers":            func(c *Config) { c.Identify.Workers = 0 },
		"bad port":                func(c *Config) { c.Server.Port = "http" },
		"bad log level":           func(c *Config) { c.Logging.Level = "trace" },
		"bad log format":          func(c *Config) { c.Logging.Format = "xml" },
		"port out of range":       func(c *Config) { c.Server.Port = "70000" },
		"extended similarity > 1": func(c *Config) { c.Matching.ExtendedSimilarity = 1.01 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
