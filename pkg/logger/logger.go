// Package logger configures structured logging for the Goldrad bot.
package logger

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/talarad/goldrad-bot/pkg/config"
)

// New builds the application logger from configuration. Output is JSON on
// stdout, optionally duplicated into a size-rotated file, and errors are
// forwarded to Sentry when reporting is enabled. Sensitive attributes are
// masked before any record leaves the process.
func New(cfg config.LogConfig, sentryEnabled bool) *slog.Logger {
	level := parseLevel(cfg.Level)

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotated)
	}

	jsonHandler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})

	var handler slog.Handler = jsonHandler
	if sentryEnabled {
		sentryHandler := slogsentry.Option{Level: slog.LevelError}.NewSentryHandler()
		handler = slogmulti.Fanout(jsonHandler, sentryHandler)
	}

	return slog.New(NewMaskingHandler(handler))
}

func parseLevel(level string) slog.Level {
	switch level {
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
