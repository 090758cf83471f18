// Package telemetry wraps the ambient logging, tracing and metrics
// libraries in small concrete types (Logger, Tracer, Metrics). The
// extensions package and cmd/reactond use them; the core and the saga,
// query, crdt and recorder packages do not import telemetry at all.
package telemetry

import "github.com/sirupsen/logrus"

// Logger is a structured logger with a fixed set of attached fields,
// grounded in evalgo-org-eve's pervasive logrus.WithFields usage.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a Logger writing JSON lines to logrus's default output.
func NewLogger() *Logger {
	base := logrus.New()
	base.SetFormatter(&logrus.JSONFormatter{})
	return &Logger{entry: logrus.NewEntry(base)}
}

// NewNopLogger discards everything; useful as a Store default so telemetry
// is opt-in.
func NewNopLogger() *Logger {
	base := logrus.New()
	base.SetOutput(nopWriter{})
	return &Logger{entry: logrus.NewEntry(base)}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// With returns a child Logger carrying additional fields.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) Debug(msg string) { l.entry.Debug(msg) }
func (l *Logger) Info(msg string)  { l.entry.Info(msg) }
func (l *Logger) Warn(msg string)  { l.entry.Warn(msg) }

func (l *Logger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}
