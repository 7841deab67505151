package logging

import (
	"maps"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// WithFields returns a logger carrying the supplied structured fields.
// Implementations without the FieldsLogger extension are returned unchanged,
// as are nil loggers and empty field maps. The map is copied before handoff
// so later caller mutations cannot leak into log entries.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return fieldsLogger.WithFields(copied)
}
