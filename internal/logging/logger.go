// Package logging provides the structured diagnostic logger shared by the
// table readers, the metadata parser and the byte-swap utility.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with table-specific context helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable lines to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// OrNoop returns l, or a discarding logger when l is nil.
func OrNoop(l *Logger) *Logger {
	if l == nil {
		return NoopLogger()
	}
	return l
}

// WithTable tags every entry with the table (source) name.
func (l *Logger) WithTable(name string) *Logger {
	if name == "" {
		return l
	}
	return &Logger{Logger: l.Logger.With("table", name)}
}

// WithComponent tags every entry with the emitting component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// Once reports each anomaly kind a single time at Warn and then drops to
// Debug, so a table with thousands of bad lines produces one diagnostic.
type Once struct {
	log  *Logger
	seen map[string]int
}

// NewOnce creates an anomaly reporter writing to log.
func NewOnce(log *Logger) *Once {
	return &Once{log: OrNoop(log), seen: make(map[string]int)}
}

// Report records one occurrence of kind.
func (o *Once) Report(kind string, args ...any) {
	o.seen[kind]++
	if o.seen[kind] == 1 {
		o.log.Warn(kind, args...)
		return
	}
	o.log.Debug(kind, args...)
}

// Count returns how many times kind was reported since the last Reset.
func (o *Once) Count(kind string) int {
	return o.seen[kind]
}

// Summarize logs one Info line per kind seen more than once and clears
// the counters.
func (o *Once) Summarize(msg string) {
	for kind, n := range o.seen {
		if n > 1 {
			o.log.Info(msg, "kind", kind, "count", n)
		}
	}
	o.Reset()
}

// Reset clears the counters without logging.
func (o *Once) Reset() {
	clear(o.seen)
}
