package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"spellquiz/internal/config"
)

// NewLogger creates a *slog.Logger writing to stderr and sets it as the
// default logger. Format "json" produces JSON output; anything else is text.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return newLogger(os.Stderr, cfg)
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
