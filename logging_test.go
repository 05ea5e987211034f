package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("Rotating file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "nbiot.log")

		logger, err := NewLogger(LogConfig{
			Level:      "debug",
			Format:     "json",
			Output:     path,
			MaxSize:    1,
			MaxBackups: 1,
		})
		require.NoError(t, err)

		logger.Info("Shield initialized")
		require.NoError(t, logger.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"Shield initialized"`)
	})

	t.Run("Console format", func(t *testing.T) {
		_, err := NewLogger(LogConfig{Level: "warn", Format: "console", Output: "stdout"})
		assert.NoError(t, err)
	})

	t.Run("Invalid level", func(t *testing.T) {
		_, err := NewLogger(LogConfig{Level: "chatty"})
		assert.Error(t, err)
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := NewLogger(LogConfig{Level: "info", Format: "xml"})
		assert.Error(t, err)
	})
}
