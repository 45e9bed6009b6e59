package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNewStderrLogger_WritesFileAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractor.log")

	logger, err := NewStderrLogger("warn", path)
	require.NoError(t, err)
	logger.Info("не попадёт")
	logger.Warn("попадёт")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "попадёт")
	assert.NotContains(t, string(content), "не попадёт")
}
