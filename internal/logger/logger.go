// Package logger wraps charmbracelet/log with the field conventions tug's
// plan builder, engine, and reconcilers use to annotate log lines with
// step and resource context.
package logger

import (
	"io"
	"os"
	"sort"

	charmlog "github.com/charmbracelet/log"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger is tug's structured logger, backed by charmbracelet/log.
type Logger struct {
	base *charmlog.Logger
}

// New creates a configured Logger instance based on Options. HumanReadable
// selects the text formatter for interactive terminals; otherwise entries
// are emitted as JSON lines.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level, err := charmlog.ParseLevel(levelOrDefault(opts.Level))
	if err != nil {
		return nil, err
	}

	formatter := charmlog.JSONFormatter
	if opts.HumanReadable {
		formatter = charmlog.TextFormatter
	}

	base := charmlog.NewWithOptions(writer, charmlog.Options{
		Level:     level,
		Formatter: formatter,
	})

	return &Logger{base: base}, nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil || l.base == nil || len(fields) == 0 {
		return l
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return &Logger{base: l.base.With(args...)}
}

// Info writes an informational log entry.
func (l *Logger) Info(msg string) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Info(msg)
}

// Debug writes a debug-level log entry if enabled.
func (l *Logger) Debug(msg string) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Debug(msg)
}

// Warn writes a warning level log entry.
func (l *Logger) Warn(msg string) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Warn(msg)
}

// Error writes an error log entry including the supplied error context.
func (l *Logger) Error(err error, msg string) {
	if l == nil || l.base == nil {
		return
	}
	if err != nil {
		l.base.Error(msg, "error", err.Error())
		return
	}
	l.base.Error(msg)
}
