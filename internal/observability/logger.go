package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/dust-damage-service/internal/config"
)

// NewLogger builds the service logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := newLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
