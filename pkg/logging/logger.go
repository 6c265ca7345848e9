package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLoggerFromEnv creates a logger using environment variables
// QANALYZE_LOG_LEVEL: debug|info|warn|error (default: warn)
// QANALYZE_LOG_FORMAT: text|json (default: text)
func NewLoggerFromEnv() *slog.Logger {
	return NewLogger(os.Stderr, os.Getenv("QANALYZE_LOG_LEVEL"), os.Getenv("QANALYZE_LOG_FORMAT"))
}

// NewLogger builds a logger writing to w. Empty level and format fall back to
// warn and text.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
