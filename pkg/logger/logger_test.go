package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileSinkReceivesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := NewZapLogger(&ZapLoggerConfig{
		Encoding:          "json",
		Level:             "info",
		DisableStacktrace: true,
		File:              path,
		MaxSizeMB:         1,
	})

	log.With(zap.String("component", "test")).Info("hello", zap.Int("n", 1))
	log.Debug("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.NotContains(t, out, "filtered out")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := NewZapLogger(&ZapLoggerConfig{Level: "loud", File: path, MaxSizeMB: 1})

	log.Debug("hidden")
	log.Warn("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
