package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// DefaultCommandTimeout bounds command execution when no explicit timeout is
// configured. Watch-style commands opt out with WithTimeout(0).
const DefaultCommandTimeout = 30 * time.Second

// EnsureContext guards against nil contexts from embedding callers.
func EnsureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

// WithCommandTimeout derives a deadline context; zero and negative timeouts
// leave ctx untouched and return a no-op cancel.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger substitutes a no-op logger for nil so handlers never guard
// their log calls.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger != nil {
		return logger
	}
	return logging.NoOp()
}
