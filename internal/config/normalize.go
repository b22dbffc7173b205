package config

import (
	"os"
	"strings"
)

// applyEnv overrides file values with non-blank environment variables.
func (c *Config) applyEnv() {
	setString(&c.Sources.Spotify.ClientID, "SPOTIFY_ID")
	setString(&c.Sources.Spotify.ClientSecret, "SPOTIFY_SECRET")
	setString(&c.Sources.SoundCloud.ClientID, "SOUNDCLOUD_CLIENT_ID")
	setString(&c.Sources.MusicBrainz.UserAgent, "MUSICBRAINZ_USER_AGENT")
	setString(&c.Registry.Path, "MUSIC_TAGGER_DB")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Server.Port, "PORT")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func (c *Config) normalize() {
	enabled := make([]string, 0, len(c.Sources.Enabled))
	seen := make(map[string]bool)
	for _, name := range c.Sources.Enabled {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		enabled = append(enabled, name)
	}
	c.Sources.Enabled = enabled

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Server.Port = strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")
}
