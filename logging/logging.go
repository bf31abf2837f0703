// Package logging sets up the session log and adapts it to the playground's
// logging interfaces.
//
// Every process writes one JSON log file named after a random session id.
// The file stands in for the browser's developer console: snippet output
// mirrored by the capture surface lands here as structured records.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonwraymond/playground/code"
	"github.com/jonwraymond/playground/console"
)

// Session is one process's log.
type Session struct {
	id     string
	path   string
	file   *os.File
	logger *slog.Logger

	closeOnce sync.Once
}

// Open creates dir if needed and opens <dir>/<session-id>.log.
//
// If the directory or file cannot be created, it returns a session logging
// to stderr along with the error, so callers can warn and carry on.
func Open(dir string, level slog.Level) (*Session, error) {
	id := uuid.NewString()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fallback(id, level, fmt.Errorf("create log directory: %w", err))
	}
	path := filepath.Join(dir, id+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fallback(id, level, fmt.Errorf("open log file: %w", err))
	}
	s := &Session{id: id, path: path, file: f, logger: newLogger(f, level, id)}
	return s, nil
}

// NewSession wraps w without touching the filesystem.
func NewSession(w io.Writer, level slog.Level) *Session {
	id := uuid.NewString()
	return &Session{id: id, logger: newLogger(w, level, id)}
}

func fallback(id string, level slog.Level, cause error) (*Session, error) {
	s := &Session{id: id, logger: newLogger(os.Stderr, level, id)}
	s.logger.Warn("file logging unavailable, using stderr", "error", cause)
	return s, cause
}

func newLogger(w io.Writer, level slog.Level, id string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("session", id)
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Path returns the log file path, or "" when logging to stderr.
func (s *Session) Path() string { return s.path }

// Logger returns the session's slog logger.
func (s *Session) Logger() *slog.Logger { return s.logger }

// Close closes the log file.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.file != nil {
			err = s.file.Close()
		}
	})
	return err
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(s string) slog.Level {
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

// Console returns a console.Sink writing each call as a log record:
// log and info at Info, warn at Warn, error at Error.
func Console(l *slog.Logger) console.Sink {
	return console.SinkFunc(func(kind console.Kind, values ...any) {
		level := slog.LevelInfo
		switch kind {
		case console.KindWarn:
			level = slog.LevelWarn
		case console.KindError:
			level = slog.LevelError
		}
		l.Log(context.Background(), level, console.Format(values...), "source", "console", "kind", string(kind))
	})
}

// Code adapts l to code.Logger. Messages are logged at Debug.
func Code(l *slog.Logger) code.Logger {
	return codeLogger{l: l}
}

type codeLogger struct {
	l *slog.Logger
}

func (c codeLogger) Logf(format string, args ...any) {
	c.l.Debug(fmt.Sprintf(format, args...), "source", "executor")
}
