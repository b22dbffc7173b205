package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateIdentify(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	m := c.Matching
	for name, v := range map[string]float64{
		"matching.threshold":           m.Threshold,
		"matching.min_threshold":       m.MinThreshold,
		"matching.min_similarity":      m.MinSimilarity,
		"matching.extended_similarity": m.ExtendedSimilarity,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
		}
	}
	if m.MinThreshold > m.Threshold {
		return errors.New("matching.min_threshold must not exceed matching.threshold")
	}
	if m.DurationTolerance <= 0 {
		return errors.New("matching.duration_tolerance_ms must be positive")
	}
	if m.Limit < 1 {
		return errors.New("matching.limit must be at least 1")
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources.Enabled) == 0 {
		return errors.New("sources.enabled must name at least one source")
	}
	for _, name := range c.Sources.Enabled {
		if !slices.Contains(KnownSources, name) {
			return fmt.Errorf("sources.enabled: unknown source %q (known: %v)", name, KnownSources)
		}
	}
	s := c.Sources.Spotify
	if (s.ClientID == "") != (s.ClientSecret == "") {
		return errors.New("sources.spotify needs both client_id and client_secret (SPOTIFY_ID, SPOTIFY_SECRET)")
	}
	return nil
}

func (c *Config) validateIdentify() error {
	if c.Identify.Workers < 1 {
		return errors.New("identify.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateServer() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("server.port must be a TCP port, got %q", c.Server.Port)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
