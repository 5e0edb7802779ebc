package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog so every component logs the same way.
type Logger struct {
	*slog.Logger
}

type Config struct {
	// debug, info, warn or error.
	Level string
	// json or text.
	Format string
	// Output defaults to stderr, stdout belongs to the interactive console.
	Output io.Writer
}

// Create a logger from the config, a nil config gives info level text logs.
func NewLogger(cfg *Config) *Logger {
	level := slog.LevelInfo
	format := "text"
	var out io.Writer = os.Stderr
	if cfg != nil {
		switch strings.ToLower(cfg.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		if cfg.Format != "" {
			format = strings.ToLower(cfg.Format)
		}
		if cfg.Output != nil {
			out = cfg.Output
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(out, opts)
	if format == "json" {
		h = slog.NewJSONHandler(out, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// Discard drops everything, for tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a child logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Install l as the process wide slog default, so package level helpers log through it.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
