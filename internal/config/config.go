// Package config loads music-tagger settings from .env, an optional TOML
// file and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"music-tagger/internal/matcher"
)

// Matching tunes the scorer and the orchestrator.
type Matching struct {
	Threshold          float64 `toml:"threshold"`
	MinThreshold       float64 `toml:"min_threshold"`
	MinSimilarity      float64 `toml:"min_similarity"`
	ExtendedSimilarity float64 `toml:"extended_similarity"`
	DurationTolerance  int     `toml:"duration_tolerance_ms"`
	Limit              int     `toml:"limit"`
}

type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

type SoundCloud struct {
	ClientID string `toml:"client_id"`
}

type MusicBrainz struct {
	UserAgent string `toml:"user_agent"`
}

// Sources lists the catalogs to search, in priority order.
type Sources struct {
	Enabled     []string    `toml:"enabled"`
	Spotify     Spotify     `toml:"spotify"`
	SoundCloud  SoundCloud  `toml:"soundcloud"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
}

type Registry struct {
	Path string `toml:"path"`
}

type Identify struct {
	Workers int `toml:"workers"`
}

type Server struct {
	Port string `toml:"port"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Matching Matching `toml:"matching"`
	Sources  Sources  `toml:"sources"`
	Registry Registry `toml:"registry"`
	Identify Identify `toml:"identify"`
	Server   Server   `toml:"server"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath is config.toml under the user's XDG config directory.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "music-tagger", "config.toml")
}

// Load reads .env from the working directory, then the TOML file at path
// (or the default path when empty), then environment overrides. It returns
// the resolved file path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, "", false, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	exists := true
	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, path, exists, nil
}

// Scorer builds the similarity scorer.
func (c *Config) Scorer() matcher.Scorer {
	return matcher.Scorer{
		MinSimilarity:      c.Matching.MinSimilarity,
		ExtendedSimilarity: c.Matching.ExtendedSimilarity,
		DurationTolerance:  c.Matching.DurationTolerance,
	}
}

// MatcherConfig builds the orchestrator settings.
func (c *Config) MatcherConfig() matcher.Config {
	return matcher.Config{
		Threshold:    c.Matching.Threshold,
		MinThreshold: c.Matching.MinThreshold,
		Limit:        c.Matching.Limit,
		Scorer:       c.Scorer(),
	}
}
