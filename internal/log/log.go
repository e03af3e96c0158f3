// Package log provides the structured logger shared by the server, the
// command-line tools, and the calculation packages.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger. A nil *Logger is valid: debug and info
// messages are discarded and warnings and errors go to slog's default
// logger.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New returns a logger writing JSON records both to stderr and to a
// size-rotated file in dir.
func New(level string, dir string) *Logger {
	if dir == "" {
		dir = "logs"
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "worksheet.slog"),
		MaxSize:    32, // MB
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	}

	l := newLogger(io.MultiWriter(os.Stderr, w), level)
	l.LogFile = w.Filename

	l.Info("Hello logging", slog.Time("start", l.Start))
	l.Info("System information",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	return l
}

// NewWriter returns a logger writing JSON records to w.
func NewWriter(w io.Writer, level string) *Logger {
	return newLogger(w, level)
}

func newLogger(w io.Writer, level string) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{
		Logger: slog.New(h),
		Start:  time.Now(),
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "", "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level, using info\n", level)
		return slog.LevelInfo
	}
}

func (l *Logger) enabled(level slog.Level) bool {
	return l != nil && l.Logger.Enabled(context.Background(), level)
}

func (l *Logger) Debug(msg string, args ...any) {
	if l.enabled(slog.LevelDebug) {
		args = append([]any{slog.Any("callstack", callers(1))}, args...)
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.enabled(slog.LevelInfo) {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l.enabled(slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	args = append([]any{slog.Any("callstack", callers(1))}, args...)
	if l == nil {
		slog.Warn(msg, args...)
	} else {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	args = append([]any{slog.Any("callstack", callers(1))}, args...)
	if l == nil {
		slog.Error(msg, args...)
	} else {
		l.Logger.Error(msg, args...)
	}
}

func (l *Logger) Errorf(msg string, args ...any) {
	if l == nil {
		slog.Error(fmt.Sprintf(msg, args...), slog.Any("callstack", callers(1)))
	} else {
		l.Logger.Error(fmt.Sprintf(msg, args...), slog.Any("callstack", callers(1)))
	}
}

// With returns a logger that includes the given attributes in each record.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
		Start:   l.Start,
	}
}
