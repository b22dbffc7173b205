// Package logging builds the zap loggers used by the CLI and the server.
package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"music-tagger/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level            string
	Format           string
	OutputPaths      []string
	ErrorOutputPaths []string
}

// New constructs a zap logger. Unknown levels fall back to info; caller
// information is only recorded at debug level.
func New(opts Options) (*zap.Logger, error) {
	level := parseLevel(opts.Level)

	var encoder zapcore.EncoderConfig
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "", "console":
		format = "console"
		encoder = zap.NewDevelopmentEncoderConfig()
		encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	case "json":
		encoder = zap.NewProductionEncoderConfig()
		encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          format,
		EncoderConfig:     encoder,
		OutputPaths:       defaultSlice(opts.OutputPaths, "stderr"),
		ErrorOutputPaths:  defaultSlice(opts.ErrorOutputPaths, "stderr"),
		DisableCaller:     level > zapcore.DebugLevel,
		DisableStacktrace: level > zapcore.DebugLevel,
	}
	return cfg.Build()
}

// NewFromConfig creates a logger from the logging section.
func NewFromConfig(cfg *config.Config) (*zap.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console"})
	}
	return New(Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func defaultSlice(value []string, fallback string) []string {
	if len(value) == 0 {
		return []string{fallback}
	}
	return append([]string(nil), value...)
}

type runIDKey struct{}

// WithRunID stores an identification run ID on the context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run ID stored by WithRunID.
func RunID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(runIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext annotates logger with the values carried by ctx.
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if id, ok := RunID(ctx); ok {
		logger = logger.With(zap.String("run_id", id))
	}
	return logger
}
