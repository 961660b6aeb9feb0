package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellquiz/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "learner", "tyler")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "tyler", entry["learner"])
	assert.Same(t, logger, slog.Default())
}
