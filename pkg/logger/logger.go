package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Options mirrors the observability.logging config section.
type Options struct {
	Level  string
	Format string
}

// Init configures the process logger from the environment name alone:
// production gets JSON at info, everything else text at debug.
func Init(env string) {
	if env == "production" {
		InitWith(Options{Level: "info", Format: "json"})
		return
	}
	InitWith(Options{Level: "debug", Format: "text"})
}

// InitWith configures the process logger from explicit options. Unknown
// values fall back to info/text.
func InitWith(opts Options) {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}
