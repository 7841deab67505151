package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/internal/commands"
	"github.com/goliatone/go-corpus/internal/commands/corpuscmd"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runExport(os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("corpus export: %v", err)
	}
}

func runExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("corpus-export", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML or TOML config file")
	baseDir := fs.String("base-dir", "", "Path to the markdown archive root (overrides config)")
	directory := fs.String("directory", ".", "Directory to ingest before exporting, relative to the archive root")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into subdirectories")
	workers := fs.Int("workers", 0, "Parse worker count (0 uses one per CPU)")
	strict := fs.Bool("strict", false, "Validate metadata against the corpus schema")
	outputPath := fs.String("out", "corpus.json", "Destination path for the snapshot document")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath: *configPath,
		BasePath:   *baseDir,
		Pattern:    *pattern,
		Recursive:  recursive,
		Workers:    *workers,
		Strict:     strict,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx := context.Background()

	ingest := corpuscmd.NewIngestDirectoryHandler(module.Service, module.Logger, module.Gates,
		commands.WithTimeout[corpuscmd.IngestDirectoryCommand](module.CommandTimeout))
	if err := ingest.Execute(ctx, corpuscmd.IngestDirectoryCommand{
		Directory: *directory,
		Pattern:   *pattern,
		Workers:   *workers,
		Strict:    *strict,
	}); err != nil {
		return fmt.Errorf("execute ingest command: %w", err)
	}

	export := corpuscmd.NewExportSnapshotHandler(module.Index, module.Logger,
		commands.WithTimeout[corpuscmd.ExportSnapshotCommand](module.CommandTimeout))
	if err := export.Execute(ctx, corpuscmd.ExportSnapshotCommand{
		OutputPath: *outputPath,
	}); err != nil {
		return fmt.Errorf("execute export command: %w", err)
	}

	fmt.Fprintf(out, "exported %d records to %s\n", module.Index.Len(), *outputPath)
	return nil
}
