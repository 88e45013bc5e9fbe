// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: CLI logs go to stderr; the TUI logs to a file so the screen stays clean.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how the default logger is built.
type Options struct {
	Level  string // debug, info, warn, error (default: info)
	Format string // text, json (default: text)
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT.
func OptionsFromEnv() Options {
	return Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	}
}

// Init configures the default slog logger to write to w.
func Init(w io.Writer, opts Options) *slog.Logger {
	l := New(w, opts)
	slog.SetDefault(l)
	return l
}

// New builds a logger without touching the default.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}

	var handler slog.Handler
	if strings.ToLower(opts.Format) == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// InitFile points the default logger at <dir>/debug.log.
// If dir is empty, logging is discarded. The returned closer must be called on exit.
func InitFile(dir string, opts Options) (io.Closer, error) {
	if dir == "" {
		Init(io.Discard, opts)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		Init(io.Discard, opts)
		return io.NopCloser(nil), err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		Init(io.Discard, opts)
		return io.NopCloser(nil), err
	}

	Init(f, opts)
	return f, nil
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
