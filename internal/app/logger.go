package app

import (
	"io"
	"log/slog"
)

// newLogger builds an isolated slog.Logger; the global default logger is
// never touched, so embedders and tests keep their own logging setup.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if formatStr == "json" {
		h = slog.NewJSONHandler(outW, opts)
	} else {
		h = slog.NewTextHandler(outW, opts)
	}
	return slog.New(h)
}
