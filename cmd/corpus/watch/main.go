package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/internal/commands/corpuscmd"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runWatch(os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("corpus watch: %v", err)
	}
}

func runWatch(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("corpus-watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a YAML or TOML config file")
	baseDir := fs.String("base-dir", "", "Path to the markdown archive root (overrides config)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files")
	strict := fs.Bool("strict", false, "Validate metadata against the corpus schema")
	debounce := fs.Duration("debounce", 0, "Delay used to coalesce filesystem event bursts (0 keeps the configured value)")
	archiveDriver := fs.String("archive", "", "Archive driver: sqlite or memory (enables archiving)")
	archiveDSN := fs.String("archive-dsn", "", "Archive data source name for the sqlite driver")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ConfigPath:    *configPath,
		BasePath:      *baseDir,
		Pattern:       *pattern,
		Strict:        strict,
		ArchiveDriver: *archiveDriver,
		ArchiveDSN:    *archiveDSN,
		WatchFeature:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, "watching for changes, press Ctrl+C to stop")

	handler := corpuscmd.NewWatchDirectoryHandler(module.Service, module.Logger, module.Gates)
	err = handler.Execute(ctx, corpuscmd.WatchDirectoryCommand{
		Pattern:  *pattern,
		Strict:   *strict,
		Debounce: *debounce,
	})
	// Interrupting the watch is the normal way to stop it.
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("execute watch command: %w", err)
	}

	fmt.Fprintln(out, "watch stopped")
	return nil
}
