package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	defaultThreshold          = 0.9
	defaultMinThreshold       = 0.6
	defaultMinSimilarity      = 0.6
	defaultExtendedSimilarity = 0.9
	defaultDurationTolerance  = 5000
	defaultLimit              = 5
	defaultWorkers            = 4
	defaultPort               = "8080"
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// KnownSources are the catalog names Sources.Enabled may contain.
var KnownSources = []string{"spotify", "soundcloud", "musicbrainz"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Matching: Matching{
			Threshold:          defaultThreshold,
			MinThreshold:       defaultMinThreshold,
			MinSimilarity:      defaultMinSimilarity,
			ExtendedSimilarity: defaultExtendedSimilarity,
			DurationTolerance:  defaultDurationTolerance,
			Limit:              defaultLimit,
		},
		Sources: Sources{
			Enabled: append([]string(nil), KnownSources...),
		},
		Registry: Registry{
			Path: filepath.Join(xdg.DataHome, "music-tagger", "registry.db"),
		},
		Identify: Identify{Workers: defaultWorkers},
		Server:   Server{Port: defaultPort},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
