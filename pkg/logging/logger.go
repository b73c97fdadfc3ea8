// Package logging sets up structured JSON logging for the viewer.
//
// A full-screen terminal program cannot log to stdout or stderr without
// corrupting the display, so logs go to a file sink (or nowhere).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Level is a configured log severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Category names the subsystem that produced a record.
type Category string

const (
	CategoryBuffer  Category = "buffer"
	CategorySearch  Category = "search"
	CategoryInput   Category = "input"
	CategoryFollow  Category = "follow"
	CategorySource  Category = "source"
	CategoryConfig  Category = "config"
	CategoryMetrics Category = "metrics"
)

// ParseLevel maps a config string to a slog level. Matching is
// case-insensitive; "warning" is accepted for warn.
func ParseLevel(s string) (slog.Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger is a component-scoped slog logger that owns its file sink.
type Logger struct {
	*slog.Logger

	mu     sync.Mutex
	closer io.Closer
}

// New writes JSON records at or above level to w.
func New(w io.Writer, component string, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{
		Logger: slog.New(handler).With(slog.String("component", component)),
	}
}

// Open appends JSON records to the file at path, creating its directory.
// An empty path returns a logger that discards everything.
func Open(path, component string, level slog.Level) (*Logger, error) {
	if path == "" {
		return Discard(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(f, component, level)
	l.closer = f
	return l, nil
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// For returns a child logger tagged with a category.
func (l *Logger) For(c Category) *slog.Logger {
	return l.Logger.With(slog.String("category", string(c)))
}

// Close releases the file sink, if any. It is safe to call twice.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}
