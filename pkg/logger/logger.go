// Package logger provides structured key/value logging for styleguard.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Logger is the structured logging interface used across the engine.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger carrying additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// Level is a log level threshold.
type Level int

const (
	// LevelDebug enables all output.
	LevelDebug Level = iota

	// LevelInfo enables info and error output.
	LevelInfo

	// LevelError enables only error output.
	LevelError
)

// String returns the level name as it appears in log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	default:
		return "ERROR"
	}
}

// WriterLogger writes logfmt-style lines to a writer. It is safe for
// concurrent use by the runner's workers.
type WriterLogger struct {
	mu      *sync.Mutex
	w       io.Writer
	min     Level
	baseKVs []any
}

// New creates a WriterLogger that emits entries at or above min.
func New(w io.Writer, min Level) *WriterLogger {
	return &WriterLogger{mu: &sync.Mutex{}, w: w, min: min}
}

// Debug logs debug-level messages.
func (l *WriterLogger) Debug(msg string, keysAndValues ...any) {
	l.log(LevelDebug, msg, keysAndValues)
}

// Info logs info-level messages.
func (l *WriterLogger) Info(msg string, keysAndValues ...any) {
	l.log(LevelInfo, msg, keysAndValues)
}

// Error logs error-level messages.
func (l *WriterLogger) Error(msg string, keysAndValues ...any) {
	l.log(LevelError, msg, keysAndValues)
}

// With returns a new logger with additional base key-value pairs. The
// writer and mutex are shared so interleaved lines stay whole.
//
//nolint:ireturn // With returns the interface for chaining
func (l *WriterLogger) With(keysAndValues ...any) Logger {
	kvs := make([]any, 0, len(l.baseKVs)+len(keysAndValues))
	kvs = append(kvs, l.baseKVs...)
	kvs = append(kvs, keysAndValues...)

	return &WriterLogger{mu: l.mu, w: l.w, min: l.min, baseKVs: kvs}
}

func (l *WriterLogger) log(level Level, msg string, kvs []any) {
	if level < l.min {
		return
	}

	var b strings.Builder

	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteString(" ")
	b.WriteString(level.String())
	b.WriteString(" ")
	b.WriteString(msg)

	writeKeyValues(&b, l.baseKVs)
	writeKeyValues(&b, kvs)
	b.WriteString("\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = io.WriteString(l.w, b.String())
}

func writeKeyValues(b *strings.Builder, kvs []any) {
	for i := 0; i+1 < len(kvs); i += 2 {
		key := fmt.Sprintf("%v", kvs[i])
		value := fmt.Sprintf("%v", kvs[i+1])

		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")

		if strings.ContainsAny(value, " \t\n\"") {
			b.WriteString(quote(value))
		} else {
			b.WriteString(value)
		}
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")

	return "\"" + s + "\""
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that does nothing.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With returns the interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
