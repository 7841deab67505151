package corpuscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-corpus/internal/commands"
	"github.com/goliatone/go-corpus/internal/export"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

const (
	ingestDirectoryOperation = "ingest.ingest_directory"
	ingestFileOperation      = "ingest.ingest_file"
	exportSnapshotOperation  = "export.write_snapshot"
	watchDirectoryOperation  = "watch.watch_directory"
)

var (
	// ErrIngestFeatureDisabled is returned when ingestion is disabled at runtime.
	ErrIngestFeatureDisabled = errors.New("corpus command: ingest feature disabled")
	// ErrWatchFeatureDisabled is returned when continuous watching is disabled at runtime.
	ErrWatchFeatureDisabled = errors.New("corpus command: watch feature disabled")
)

var (
	_ command.Commander[IngestDirectoryCommand] = (*IngestDirectoryHandler)(nil)
	_ command.Commander[IngestFileCommand]      = (*IngestFileHandler)(nil)
	_ command.Commander[ExportSnapshotCommand]  = (*ExportSnapshotHandler)(nil)
	_ command.Commander[WatchDirectoryCommand]  = (*WatchDirectoryHandler)(nil)
)

// IngestDirectoryHandler orchestrates batch ingestion runs via the shared
// command handler foundation.
type IngestDirectoryHandler struct {
	inner *commands.Handler[IngestDirectoryCommand]
}

// NewIngestDirectoryHandler creates a handler bound to the supplied ingest service.
func NewIngestDirectoryHandler(service interfaces.IngestService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[IngestDirectoryCommand]) *IngestDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg IngestDirectoryCommand) error {
		if !gates.ingestEnabled() {
			return ErrIngestFeatureDisabled
		}

		report, err := service.IngestDirectory(ctx, msg.Directory, interfaces.IngestOptions{
			Pattern: msg.Pattern,
			Workers: msg.Workers,
			Strict:  msg.Strict,
			DryRun:  msg.DryRun,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"files_seen": report.FilesSeen,
			"indexed":    report.Indexed,
			"replaced":   report.Replaced,
			"skipped":    report.Skipped,
			"invalid":    report.InvalidCount(),
			"dry_run":    report.DryRun,
		}).Info("corpus.command.ingest_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[IngestDirectoryCommand]{
		commands.WithLogger[IngestDirectoryCommand](baseLogger),
		commands.WithOperation[IngestDirectoryCommand](ingestDirectoryOperation),
		commands.WithMessageFields(func(msg IngestDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Workers > 0 {
				fields["workers"] = msg.Workers
			}
			if msg.Strict {
				fields["strict"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[IngestDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &IngestDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[IngestDirectoryCommand].
func (h *IngestDirectoryHandler) Execute(ctx context.Context, msg IngestDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// IngestFileHandler ingests one document via the shared command handler foundation.
type IngestFileHandler struct {
	inner *commands.Handler[IngestFileCommand]
}

// NewIngestFileHandler creates a handler bound to the supplied ingest service.
func NewIngestFileHandler(service interfaces.IngestService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[IngestFileCommand]) *IngestFileHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg IngestFileCommand) error {
		if !gates.ingestEnabled() {
			return ErrIngestFeatureDisabled
		}

		report, err := service.IngestFile(ctx, msg.Path, interfaces.IngestOptions{
			Strict: msg.Strict,
			DryRun: msg.DryRun,
		})
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"indexed": report.Indexed,
			"skipped": report.Skipped,
			"invalid": report.InvalidCount(),
			"dry_run": report.DryRun,
		}).Info("corpus.command.ingest_file.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[IngestFileCommand]{
		commands.WithLogger[IngestFileCommand](baseLogger),
		commands.WithOperation[IngestFileCommand](ingestFileOperation),
		commands.WithMessageFields(func(msg IngestFileCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if msg.Strict {
				fields["strict"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[IngestFileCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &IngestFileHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[IngestFileCommand].
func (h *IngestFileHandler) Execute(ctx context.Context, msg IngestFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportSnapshotHandler serializes the index through an export writer.
type ExportSnapshotHandler struct {
	inner *commands.Handler[ExportSnapshotCommand]
}

// NewExportSnapshotHandler creates a handler bound to the supplied index.
func NewExportSnapshotHandler(index interfaces.CorpusIndex, logger interfaces.Logger, opts ...commands.HandlerOption[ExportSnapshotCommand]) *ExportSnapshotHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(_ context.Context, msg ExportSnapshotCommand) error {
		writer, err := export.NewWriter(index)
		if err != nil {
			return err
		}
		if err := writer.WriteFile(msg.OutputPath); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"output_path":  msg.OutputPath,
			"record_count": index.Len(),
		}).Info("corpus.command.write_snapshot.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSnapshotCommand]{
		commands.WithLogger[ExportSnapshotCommand](baseLogger),
		commands.WithOperation[ExportSnapshotCommand](exportSnapshotOperation),
		commands.WithMessageFields(func(msg ExportSnapshotCommand) map[string]any {
			return map[string]any{
				"output_path": msg.OutputPath,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportSnapshotCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSnapshotHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportSnapshotCommand].
func (h *ExportSnapshotHandler) Execute(ctx context.Context, msg ExportSnapshotCommand) error {
	return h.inner.Execute(ctx, msg)
}

// WatchDirectoryHandler keeps a directory under continuous ingestion. Watch
// commands block until their context is cancelled, so the handler disables
// the execution timeout by default.
type WatchDirectoryHandler struct {
	inner *commands.Handler[WatchDirectoryCommand]
}

// NewWatchDirectoryHandler creates a handler bound to the supplied ingest service.
func NewWatchDirectoryHandler(service interfaces.IngestService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[WatchDirectoryCommand]) *WatchDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg WatchDirectoryCommand) error {
		if !gates.watchEnabled() {
			return ErrWatchFeatureDisabled
		}

		return service.Watch(ctx, interfaces.WatchOptions{
			IngestOptions: interfaces.IngestOptions{
				Pattern: msg.Pattern,
				Strict:  msg.Strict,
			},
			Debounce: msg.Debounce,
		})
	}

	handlerOpts := []commands.HandlerOption[WatchDirectoryCommand]{
		commands.WithLogger[WatchDirectoryCommand](baseLogger),
		commands.WithOperation[WatchDirectoryCommand](watchDirectoryOperation),
		commands.WithTimeout[WatchDirectoryCommand](0),
		commands.WithMessageFields(func(msg WatchDirectoryCommand) map[string]any {
			fields := map[string]any{}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Debounce > 0 {
				fields["debounce_ms"] = msg.Debounce.Milliseconds()
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[WatchDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &WatchDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[WatchDirectoryCommand].
func (h *WatchDirectoryHandler) Execute(ctx context.Context, msg WatchDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
