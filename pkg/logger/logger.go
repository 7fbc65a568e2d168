package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	s *slog.Logger
}

// New returns an info-level text logger on stderr.
func New() *Logger { return NewWith(os.Stderr, "info", "text") }

// NewWith builds a logger for the given level ("debug", "info", "warn",
// "error") and format ("text" or "json").
func NewWith(w io.Writer, level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{s: slog.New(h)}
}

// Discard drops everything; handy in tests.
func Discard() *Logger { return NewWith(io.Discard, "error", "text") }

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{s: l.s.With(args...)}
}

// Slog exposes the underlying logger for APIs that take a *slog.Logger or
// a slog.Handler, such as http.Server.ErrorLog via slog.NewLogLogger.
func (l *Logger) Slog() *slog.Logger { return l.s }

func (l *Logger) Debugf(format string, args ...any) {
	l.s.Debug(fmt.Sprintf(format, args...))
}
func (l *Logger) Infof(format string, args ...any) {
	l.s.Info(fmt.Sprintf(format, args...))
}
func (l *Logger) Warnf(format string, args ...any) {
	l.s.Warn(fmt.Sprintf(format, args...))
}
func (l *Logger) Errorf(format string, args ...any) {
	l.s.Error(fmt.Sprintf(format, args...))
}
