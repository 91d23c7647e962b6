// Package logging configures the shared slog logger for the service.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// parseLevel maps an ESTOQUE_LOG_LEVEL value to a slog level. Anything
// unrecognized falls back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Setup builds the service logger, installs it as the process default,
// and returns it. Every line carries the service name so lines from a
// shared host stay attributable.
func Setup(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler).With("service", "estoque")
	slog.SetDefault(logger)
	return logger
}
