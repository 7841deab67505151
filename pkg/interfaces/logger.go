package interfaces

import "context"

// Logger is the leveled logging contract used throughout the corpus runtime.
// The method set is compatible with github.com/goliatone/go-logger, so host
// applications that already use that package can inject it directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. A provider may scope children per
// name (module loggers) or return one shared instance for every request.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional Logger extension for persistent structured
// fields. Implementations return a new logger that applies the fields to
// every subsequent entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
