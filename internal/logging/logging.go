// Package logging is a small structured logger on top of log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Anything else is info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a single key/value attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

type fieldSet []Field

// Option is anything that can contribute fields to a log line.
type Option interface {
	fields() []Field
}

func (f Field) fields() []Field     { return []Field{f} }
func (fs fieldSet) fields() []Field { return fs }

func WithField(key string, value interface{}) Option {
	return Field{Key: key, Value: value}
}

// WithFields attaches every entry of m, sorted by key so output is stable.
func WithFields(m map[string]interface{}) Option {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fs := make(fieldSet, 0, len(keys))
	for _, k := range keys {
		fs = append(fs, Field{Key: k, Value: m[k]})
	}
	return fs
}

type Logger struct {
	internal *slog.Logger
	level    Level
}

func New(level Level) *Logger {
	return NewWithWriter(os.Stderr, level)
}

func NewWithWriter(w io.Writer, level Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	return &Logger{
		internal: slog.New(handler),
		level:    level,
	}
}

// With returns a child logger that always carries opts.
func (l *Logger) With(opts ...Option) *Logger {
	return &Logger{
		internal: l.internal.With(toArgs(opts)...),
		level:    l.level,
	}
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) Debug(msg string, opts ...Option) {
	l.log(slog.LevelDebug, msg, opts)
}

func (l *Logger) Info(msg string, opts ...Option) {
	l.log(slog.LevelInfo, msg, opts)
}

func (l *Logger) Warn(msg string, opts ...Option) {
	l.log(slog.LevelWarn, msg, opts)
}

func (l *Logger) Error(msg string, opts ...Option) {
	l.log(slog.LevelError, msg, opts)
}

func (l *Logger) log(level slog.Level, msg string, opts []Option) {
	if l == nil {
		return
	}
	l.internal.Log(context.Background(), level, msg, toArgs(opts)...)
}

func toArgs(opts []Option) []any {
	args := make([]any, 0, len(opts)*2)
	for _, o := range opts {
		if o == nil {
			continue
		}
		for _, f := range o.fields() {
			args = append(args, slog.Any(f.Key, f.Value))
		}
	}
	return args
}
