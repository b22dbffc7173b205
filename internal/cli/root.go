// Package cli holds the music-tagger cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"music-tagger/internal/config"
	"music-tagger/internal/logging"
	"music-tagger/internal/matcher"
	"music-tagger/internal/sources/musicbrainz"
	"music-tagger/internal/sources/soundcloud"
	"music-tagger/internal/sources/spotify"
)

var (
	configPath string
	logLevel   string
	cmdRoot    = &cobra.Command{
		Use:   "music-tagger",
		Short: "Identify music recordings from filenames, tags and listings",
	}
)

func init() {
	cmdRoot.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.toml (default $XDG_CONFIG_HOME/music-tagger/config.toml)")
	cmdRoot.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

func Execute() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// env is what commands that touch the network share.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, path, exists, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", zap.String("path", path), zap.Bool("file", exists))
	return &env{cfg: cfg, logger: logger}, nil
}

// sources builds the enabled catalog sources in configured order.
func (e *env) sources(ctx context.Context) []matcher.Source {
	var out []matcher.Source
	for _, name := range e.cfg.Sources.Enabled {
		switch name {
		case spotify.Name:
			out = append(out, e.spotify(ctx))
		case soundcloud.Name:
			var cache soundcloud.KeyCache
			if c, err := soundcloud.DefaultKeyCache(); err == nil {
				cache = c
			} else {
				e.logger.Warn("soundcloud key cache unavailable", zap.Error(err))
			}
			out = append(out, soundcloud.New(e.cfg.Sources.SoundCloud.ClientID, cache, soundcloud.WithLogger(e.logger)))
		case musicbrainz.Name:
			out = append(out, musicbrainz.New(e.cfg.Sources.MusicBrainz.UserAgent))
		}
	}
	return out
}

func (e *env) spotify(ctx context.Context) *spotify.Source {
	var cache spotify.TokenCache
	if c, err := spotify.DefaultTokenCache(); err == nil {
		cache = c
	} else {
		e.logger.Warn("spotify token cache unavailable", zap.Error(err))
	}
	creds := spotify.Credentials{ID: e.cfg.Sources.Spotify.ClientID, Secret: e.cfg.Sources.Spotify.ClientSecret}
	if creds.ID == "" {
		e.logger.Debug("no spotify credentials, using the anonymous web token")
	}
	return spotify.New(spotify.NewHTTPClient(ctx, creds, cache))
}
