package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/internal/commands"
	"github.com/goliatone/go-corpus/internal/commands/corpuscmd"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runIngest(os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("corpus ingest: %v", err)
	}
}

func runIngest(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("corpus-ingest", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML or TOML config file")
	baseDir := fs.String("base-dir", "", "Path to the markdown archive root (overrides config)")
	directory := fs.String("directory", ".", "Directory to ingest, relative to the archive root")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into subdirectories")
	workers := fs.Int("workers", 0, "Parse worker count (0 uses one per CPU)")
	strict := fs.Bool("strict", false, "Validate metadata against the corpus schema")
	dryRun := fs.Bool("dry-run", false, "Parse and validate without touching the index or archive")
	archiveDriver := fs.String("archive", "", "Archive driver: sqlite or memory (enables archiving)")
	archiveDSN := fs.String("archive-dsn", "", "Archive data source name for the sqlite driver")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath:    *configPath,
		BasePath:      *baseDir,
		Pattern:       *pattern,
		Recursive:     recursive,
		Workers:       *workers,
		Strict:        strict,
		ArchiveDriver: *archiveDriver,
		ArchiveDSN:    *archiveDSN,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	collector := &reportCollector{}
	handler := corpuscmd.NewIngestDirectoryHandler(collector.wrap(module.Service), module.Logger, module.Gates,
		commands.WithTimeout[corpuscmd.IngestDirectoryCommand](module.CommandTimeout))
	cmd := corpuscmd.IngestDirectoryCommand{
		Directory: *directory,
		Pattern:   *pattern,
		Workers:   *workers,
		Strict:    *strict,
		DryRun:    *dryRun,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute ingest command: %w", err)
	}

	printReport(out, collector.report)
	return nil
}

// reportCollector captures the report produced inside the command handler so
// the CLI can print a summary after execution.
type reportCollector struct {
	report *interfaces.IngestReport
}

func (c *reportCollector) wrap(service interfaces.IngestService) interfaces.IngestService {
	return &collectingService{inner: service, collector: c}
}

type collectingService struct {
	inner     interfaces.IngestService
	collector *reportCollector
}

func (s *collectingService) IngestFile(ctx context.Context, path string, opts interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	report, err := s.inner.IngestFile(ctx, path, opts)
	s.collector.report = report
	return report, err
}

func (s *collectingService) IngestDirectory(ctx context.Context, dir string, opts interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	report, err := s.inner.IngestDirectory(ctx, dir, opts)
	s.collector.report = report
	return report, err
}

func (s *collectingService) Watch(ctx context.Context, opts interfaces.WatchOptions) error {
	return s.inner.Watch(ctx, opts)
}

func printReport(out io.Writer, report *interfaces.IngestReport) {
	if report == nil {
		return
	}
	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(out, "ingest complete%s: %d seen, %d indexed, %d replaced, %d skipped, %d invalid in %s\n",
		mode, report.FilesSeen, report.Indexed, report.Replaced, report.Skipped, report.InvalidCount(), report.Duration)

	// Validation failures are summarised by field, never one line per file.
	fields := make([]string, 0, len(report.ReasonCounts))
	for field := range report.ReasonCounts {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(out, "  %s: %d invalid\n", field, report.ReasonCounts[field])
	}
}
