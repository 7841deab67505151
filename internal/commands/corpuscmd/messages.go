package corpuscmd

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ingestDirectoryMessageType = "corpus.ingest.ingest_directory"
	ingestFileMessageType      = "corpus.ingest.ingest_file"
	exportSnapshotMessageType  = "corpus.export.write_snapshot"
	watchDirectoryMessageType  = "corpus.watch.watch_directory"
)

// IngestDirectoryCommand triggers a filesystem walk for Markdown documents
// under the provided Directory, relative to the ingest service's base path.
type IngestDirectoryCommand struct {
	// Directory selects the path to ingest, relative to the archive root.
	Directory string `json:"directory"`
	// Pattern narrows ingestion to files matching the glob. Empty keeps the service default.
	Pattern string `json:"pattern,omitempty"`
	// Workers bounds the parse fan-out. Zero keeps the service default.
	Workers int `json:"workers,omitempty"`
	// Strict enables schema validation on top of the required-field checks.
	Strict bool `json:"strict,omitempty"`
	// DryRun counts what would be indexed without touching the index or archive.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (IngestDirectoryCommand) Type() string { return ingestDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd IngestDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(requireNonBlank("corpus.ingest.ingest_directory.directory_required", "directory is required"))),
		validation.Field(&cmd.Workers, validation.Min(0)),
	)
}

// IngestFileCommand ingests a single Markdown document.
type IngestFileCommand struct {
	// Path selects the file to ingest, relative to the archive root.
	Path string `json:"path"`
	// Strict enables schema validation on top of the required-field checks.
	Strict bool `json:"strict,omitempty"`
	// DryRun validates without touching the index or archive.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (IngestFileCommand) Type() string { return ingestFileMessageType }

// Validate ensures path input is present before handlers execute.
func (cmd IngestFileCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(requireNonBlank("corpus.ingest.ingest_file.path_required", "path is required"))),
	)
}

// ExportSnapshotCommand serializes the current index into a JSON snapshot at
// OutputPath.
type ExportSnapshotCommand struct {
	// OutputPath is the destination for the snapshot document.
	OutputPath string `json:"output_path"`
}

// Type implements command.Message.
func (ExportSnapshotCommand) Type() string { return exportSnapshotMessageType }

// Validate ensures the destination is present before handlers execute.
func (cmd ExportSnapshotCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.OutputPath, validation.Required, validation.By(requireNonBlank("corpus.export.write_snapshot.output_path_required", "output path is required"))),
	)
}

// WatchDirectoryCommand keeps the archive root under observation, re-ingesting
// after filesystem changes settle.
type WatchDirectoryCommand struct {
	// Pattern narrows ingestion to files matching the glob. Empty keeps the service default.
	Pattern string `json:"pattern,omitempty"`
	// Debounce is how long changes must settle before a re-ingest pass. Zero keeps the service default.
	Debounce time.Duration `json:"debounce,omitempty"`
	// Strict enables schema validation on top of the required-field checks.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (WatchDirectoryCommand) Type() string { return watchDirectoryMessageType }

// Validate rejects negative debounce windows before handlers execute.
func (cmd WatchDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Debounce, validation.Min(time.Duration(0))),
	)
}

func requireNonBlank(code, message string) func(value any) error {
	return func(value any) error {
		text, _ := value.(string)
		if strings.TrimSpace(text) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
