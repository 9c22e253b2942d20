// Package logging wraps the structured logger used by every report run so that
// pipeline code depends on a small interface rather than on logrus directly.
package logging

// Logger is the structured logger handed to ingest, classification, assembly and export.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a child logger carrying err.
	WithError(err error) Logger
	// WithField returns a child logger carrying one extra field.
	WithField(key string, value interface{}) Logger
	// WithFields returns a child logger carrying the given fields.
	WithFields(fields ...Field) Logger

	// Fatal logs and terminates the process. Only command handlers call it.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...interface{})
}

// Field is one key/value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
