package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "corpus.logging.fields"

// ContextWithFields annotates ctx with structured fields that context-aware
// loggers merge into every entry. Fields already on the context survive;
// colliding keys take the new value.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}

	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	maps.Copy(merged, existing)
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the logging fields annotated on ctx, nil
// when there are none. The copy keeps callers from mutating fields that
// later log entries will read.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}

	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}

	copied := make(map[string]any, len(fields))
	maps.Copy(copied, fields)
	return copied
}
