package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

const (
	rootModule     = "corpus"
	ingestModule   = "corpus.ingest"
	archiveModule  = "corpus.archive"
	watchModule    = "corpus.watch"
	commandsModule = "corpus.commands"
)

const (
	fieldIngestPath    = "file_path"
	fieldIngestPattern = "pattern"
	fieldIngestAction  = "ingest_action"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// IngestLogger returns the logger namespace reserved for ingest runs.
func IngestLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ingestModule)
}

// ArchiveLogger returns the logger namespace reserved for archive persistence.
func ArchiveLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, archiveModule)
}

// WatchLogger returns the logger namespace reserved for watch mode.
func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, watchModule)
}

// CommandLogger returns a module-scoped logger for a command handler group so
// command executions carry consistent structured fields.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	name := strings.TrimSpace(group)
	if name == "" {
		name = "core"
	}
	logger := ModuleLogger(provider, commandsModule+"."+name)
	return WithFields(logger, map[string]any{
		"component":     "command",
		"command_group": name,
	})
}

// WithIngestContext enriches the provided logger with common ingest fields
// such as file path, discovery pattern, and action. Empty values are ignored.
func WithIngestContext(logger interfaces.Logger, path, pattern, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldIngestPath] = trimmed
	}
	if trimmed := strings.TrimSpace(pattern); trimmed != "" {
		fields[fieldIngestPattern] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldIngestAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
