package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"music-tagger/internal/config"
	"music-tagger/internal/logging"
)

func logToFile(t *testing.T, opts logging.Options, msg string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.log")
	opts.OutputPaths = []string{path}
	opts.ErrorOutputPaths = []string{path}

	logger, err := logging.New(opts)
	require.NoError(t, err)
	logger.Info(msg, zap.String("k", "v"))
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	out := logToFile(t, logging.Options{Format: "console", Level: "info"}, "no caller")
	assert.Contains(t, out, "no caller")
	assert.NotContains(t, out, ".go:")
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	out := logToFile(t, logging.Options{Format: "console", Level: "debug"}, "with caller")
	assert.Contains(t, out, ".go:")
}

func TestJSONLogger(t *testing.T) {
	out := logToFile(t, logging.Options{Format: "json", Level: "info"}, "json message")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"msg":"json message"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{Level: "invalid", OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "hidden")
	assert.Contains(t, string(content), "shown")
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	logger, err = logging.NewFromConfig(nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestWithContextAddsRunID(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx := logging.WithRunID(context.Background(), "run-1")
	logging.WithContext(ctx, logger).Info("contextual log")
	logging.WithContext(context.Background(), logger).Info("plain log")

	records := observed.All()
	require.Len(t, records, 2)
	assert.Equal(t, "run-1", records[0].ContextMap()["run_id"])
	assert.NotContains(t, records[1].ContextMap(), "run_id")
}
