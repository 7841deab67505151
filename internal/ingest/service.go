package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-corpus/internal/frontmatter"
	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/internal/record"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var (
	ErrIndexRequired     = errors.New("ingest: corpus index is required")
	ErrValidatorRequired = errors.New("ingest: record validator is required")
)

// Config controls how the ingest service discovers and processes files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	// Workers bounds the parse/validate fan-out. Zero means one worker per CPU.
	Workers int
	Strict  bool
}

// Dependencies carries the collaborators the service orchestrates. Index and
// Validator are required; Archive and Renderer are optional features.
// WatchLogger, when set, scopes watch mode output to its own namespace and
// falls back to Logger otherwise.
type Dependencies struct {
	Index       *index.Index
	Validator   *record.Validator
	Archive     interfaces.ArchiveRepository
	Renderer    interfaces.MarkdownRenderer
	Logger      interfaces.Logger
	WatchLogger interfaces.Logger
}

// Service implements interfaces.IngestService for filesystem-backed archives.
// The parse and validate stages are side-effect-free per file, so they fan out
// over a bounded worker pool; all index writes happen on the calling
// goroutine, keeping the index single-writer.
type Service struct {
	cfg         Config
	loader      *Loader
	deps        Dependencies
	logger      interfaces.Logger
	watchLogger interfaces.Logger
}

var _ interfaces.IngestService = (*Service)(nil)

// NewService constructs an ingest service rooted at cfg.BasePath. A missing
// base directory is the one unrecoverable configuration error and is
// reported immediately rather than on first use.
func NewService(cfg Config, deps Dependencies) (*Service, error) {
	if deps.Index == nil {
		return nil, ErrIndexRequired
	}
	if deps.Validator == nil {
		return nil, ErrValidatorRequired
	}

	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	watchLogger := deps.WatchLogger
	if watchLogger == nil {
		watchLogger = logger
	}

	loader := NewLoader(filesystem, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})

	return &Service{
		cfg:         cfg,
		loader:      loader,
		deps:        deps,
		logger:      logger,
		watchLogger: watchLogger,
	}, nil
}

// IngestFile processes a single document.
func (s *Service) IngestFile(ctx context.Context, path string, opts interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	acc := newReportAccumulator(opts.DryRun)
	outcome := s.processFile(ctx, path, opts)
	if outcome.err != nil {
		return nil, outcome.err
	}
	if err := s.collect(ctx, outcome, opts, acc); err != nil {
		return nil, err
	}
	return acc.report(), nil
}

// IngestDirectory discovers every matching file under dir and runs the full
// parse, validate, index pipeline. Per-file problems are counted in the
// report; only environment failures (missing directory, unreadable files)
// abort the batch.
func (s *Service) IngestDirectory(ctx context.Context, dir string, opts interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	start := time.Now()

	paths, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest: discover %s: %w", dir, err)
	}

	acc := newReportAccumulator(opts.DryRun)
	outcomes := make([]fileOutcome, len(paths))

	workers := s.effectiveWorkerCount(opts.Workers, len(paths))
	if workers <= 1 {
		for i, path := range paths {
			outcomes[i] = s.processFile(ctx, path, opts)
		}
	} else {
		s.processConcurrently(ctx, paths, opts, workers, outcomes)
	}

	// Index writes stay on this goroutine, in deterministic path order.
	for _, outcome := range outcomes {
		if outcome.err != nil {
			return nil, outcome.err
		}
		if err := s.collect(ctx, outcome, opts, acc); err != nil {
			return nil, err
		}
	}

	report := acc.report()
	report.Duration = time.Since(start)

	logging.WithFields(s.logger, map[string]any{
		"files_seen":  report.FilesSeen,
		"indexed":     report.Indexed,
		"invalid":     report.InvalidCount(),
		"skipped":     report.Skipped,
		"replaced":    report.Replaced,
		"dry_run":     report.DryRun,
		"duration_ms": report.Duration.Milliseconds(),
	}).Info("ingest.directory.completed")

	return report, nil
}

type fileOutcome struct {
	path      string
	result    interfaces.ValidationResult
	malformed *frontmatter.MalformedError
	err       error
}

func (s *Service) processConcurrently(ctx context.Context, paths []string, opts interfaces.IngestOptions, workers int, outcomes []fileOutcome) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = s.processFile(ctx, paths[idx], opts)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// processFile runs the side-effect-free pipeline stages for one file: load,
// parse, validate, and optionally render.
func (s *Service) processFile(ctx context.Context, path string, opts interfaces.IngestOptions) fileOutcome {
	outcome := fileOutcome{path: path}

	doc, err := s.loader.LoadFile(ctx, path, LoadParams{Pattern: opts.Pattern})
	if err != nil {
		var malformed *frontmatter.MalformedError
		if errors.As(err, &malformed) {
			outcome.malformed = malformed
			return outcome
		}
		outcome.err = err
		return outcome
	}

	outcome.result = s.deps.Validator.ValidateStrictness(doc, opts.Strict || s.cfg.Strict)
	if !outcome.result.Valid() {
		return outcome
	}

	if s.deps.Renderer != nil {
		html, err := s.deps.Renderer.Render(outcome.result.Record.Body)
		if err != nil {
			outcome.err = fmt.Errorf("ingest: render %s: %w", path, err)
			return outcome
		}
		outcome.result.Record.BodyHTML = html
	}

	return outcome
}

// collect applies one outcome to the report and, outside dry runs, to the
// index and archive. Must be called from a single goroutine.
func (s *Service) collect(ctx context.Context, outcome fileOutcome, opts interfaces.IngestOptions, acc *reportAccumulator) error {
	acc.seen()

	if outcome.malformed != nil {
		acc.skip()
		logging.WithIngestContext(s.logger, outcome.path, "", "skip").
			Warn("ingest.file.malformed_frontmatter", "error", outcome.malformed)
		return nil
	}

	if !outcome.result.Valid() {
		acc.invalid(outcome.path, outcome.result.Reasons)
		return nil
	}

	if opts.DryRun {
		acc.indexed()
		return nil
	}

	rec := outcome.result.Record
	if replaced := s.deps.Index.Add(rec); replaced {
		acc.replaced()
		logging.WithIngestContext(s.logger, outcome.path, "", "replace").
			Info("ingest.record.superseded", "record_id", rec.ID, "source_url", rec.SourceURL)
	}
	acc.indexed()

	if s.deps.Archive != nil {
		if _, err := s.deps.Archive.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("ingest: archive %s: %w", outcome.path, err)
		}
	}
	return nil
}

func (s *Service) effectiveWorkerCount(requested, jobs int) int {
	workers := requested
	if workers <= 0 {
		workers = s.cfg.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if jobs > 0 && workers > jobs {
		workers = jobs
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("ingest: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}

type reportAccumulator struct {
	filesSeen    int
	indexedCount int
	replacedHits int
	skippedCount int
	invalidList  []interfaces.InvalidRecord
	reasonCounts map[string]int
	dryRun       bool
}

func newReportAccumulator(dryRun bool) *reportAccumulator {
	return &reportAccumulator{
		invalidList:  []interfaces.InvalidRecord{},
		reasonCounts: map[string]int{},
		dryRun:       dryRun,
	}
}

func (a *reportAccumulator) seen()     { a.filesSeen++ }
func (a *reportAccumulator) indexed()  { a.indexedCount++ }
func (a *reportAccumulator) replaced() { a.replacedHits++ }
func (a *reportAccumulator) skip()     { a.skippedCount++ }

func (a *reportAccumulator) invalid(path string, reasons []interfaces.Reason) {
	a.invalidList = append(a.invalidList, interfaces.InvalidRecord{
		Path:    path,
		Reasons: reasons,
	})
	for _, reason := range reasons {
		key := reason.Field
		if key == "" {
			key = "other"
		}
		a.reasonCounts[key]++
	}
}

func (a *reportAccumulator) report() *interfaces.IngestReport {
	return &interfaces.IngestReport{
		FilesSeen:    a.filesSeen,
		Indexed:      a.indexedCount,
		Replaced:     a.replacedHits,
		Skipped:      a.skippedCount,
		Invalid:      a.invalidList,
		ReasonCounts: a.reasonCounts,
		DryRun:       a.dryRun,
	}
}
