package interfaces

import (
	"context"
	"time"
)

// IngestService exposes the batch workflows for loading Markdown archives into
// the corpus index. Implementations rebuild the index wholesale per run; there
// is no incremental mutation surface.
type IngestService interface {
	IngestFile(ctx context.Context, path string, opts IngestOptions) (*IngestReport, error)
	IngestDirectory(ctx context.Context, dir string, opts IngestOptions) (*IngestReport, error)
	// Watch re-runs directory ingestion whenever matching files change under
	// the configured content root. It blocks until ctx is cancelled.
	Watch(ctx context.Context, opts WatchOptions) error
}

// IngestOptions fine-tunes one ingestion pass.
type IngestOptions struct {
	// Pattern overrides the configured discovery glob (defaults to *.md).
	Pattern string
	// Recursive overrides the configured directory traversal toggle.
	Recursive *bool
	// Workers overrides the parse/validate fan-out width. Zero means the
	// configured value; values are clamped to the machine's CPU count.
	Workers int
	// Strict enables metadata schema validation on top of field validation.
	Strict bool
	// DryRun parses and validates without touching the index or archive.
	DryRun bool
}

// WatchOptions configures continuous re-ingestion.
type WatchOptions struct {
	IngestOptions
	// Debounce coalesces bursts of filesystem events into one ingest run.
	Debounce time.Duration
}

// IngestReport summarises one ingestion pass. Per-file problems never abort
// the batch; they are counted and retained here instead.
type IngestReport struct {
	FilesSeen int
	Indexed   int
	// Replaced counts duplicate-id collisions resolved by capture time.
	Replaced int
	// Skipped counts files dropped for malformed front matter.
	Skipped int
	Invalid []InvalidRecord
	// ReasonCounts groups validation failures by field for summary output.
	ReasonCounts map[string]int
	Duration     time.Duration
	DryRun       bool
}

// InvalidCount returns the number of records rejected by validation.
func (r *IngestReport) InvalidCount() int {
	return len(r.Invalid)
}

// InvalidRecord retains a rejected document alongside its failure reasons so
// callers can report on it without re-parsing the source file.
type InvalidRecord struct {
	Path    string   `json:"path"`
	Reasons []Reason `json:"reasons"`
}
