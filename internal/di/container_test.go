package di

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-corpus/internal/archive"
	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/internal/runtimeconfig"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Ingest.BasePath = t.TempDir()
	return cfg
}

func TestNewContainerBuildsDefaults(t *testing.T) {
	c, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if c.IngestService() == nil {
		t.Fatal("expected ingest service to be wired")
	}
	if c.Index() == nil {
		t.Fatal("expected index to be wired")
	}
	if c.LoggerProvider() == nil {
		t.Fatal("expected logger provider to be wired")
	}
	// Archive and render stay disabled until their features are on.
	if c.ArchiveRepository() != nil {
		t.Fatal("expected no archive without the feature flag")
	}
	if c.Renderer() != nil {
		t.Fatal("expected no renderer without the feature flag")
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ingest.BasePath = ""

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrIngestBasePathRequired) {
		t.Fatalf("expected ErrIngestBasePathRequired, got %v", err)
	}
}

func TestNewContainerFailsOnMissingArchiveRoot(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ingest.BasePath = filepath.Join(t.TempDir(), "does-not-exist")

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error for missing archive root")
	}
}

func TestNewContainerMemoryArchive(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Archive = true
	cfg.Archive.Driver = "memory"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if _, ok := c.ArchiveRepository().(*archive.MemoryArchiveRepository); !ok {
		t.Fatalf("expected memory archive, got %T", c.ArchiveRepository())
	}
}

func TestNewContainerSQLiteArchive(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Archive = true
	cfg.Archive.Driver = "sqlite"
	cfg.Archive.DSN = "file:" + filepath.Join(t.TempDir(), "corpus.db")

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	repo := c.ArchiveRepository()
	if repo == nil {
		t.Fatal("expected sqlite archive to be wired")
	}
	if c.BunDB() == nil {
		t.Fatal("expected container to own a database handle")
	}

	// The schema must be usable immediately.
	if _, err := repo.List(context.Background()); err != nil {
		t.Fatalf("List on fresh archive: %v", err)
	}
}

func TestNewContainerRenderFeature(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Render = true

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	html, err := c.Renderer().Render([]byte("# Title"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(html) == 0 {
		t.Fatal("expected rendered output")
	}
}

func TestNewContainerHonoursOverrides(t *testing.T) {
	idx := index.New()
	repo := archive.NewMemoryArchiveRepository()
	cfg := testConfig(t)
	cfg.Features.Archive = true
	cfg.Archive.Driver = "sqlite"
	cfg.Archive.DSN = "file:unused.db"

	c, err := NewContainer(cfg, WithIndex(idx), WithArchiveRepository(repo))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if c.Index() != idx {
		t.Fatal("expected index override to win")
	}
	if c.ArchiveRepository() != interfaces.ArchiveRepository(repo) {
		t.Fatal("expected archive override to win")
	}
	// The override means no database handle is created.
	if c.BunDB() != nil {
		t.Fatal("expected no owned database when archive is overridden")
	}
}

func TestNewContainerGologgerProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "debug"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	logger := c.LoggerProvider().GetLogger("corpus.test")
	if logger == nil {
		t.Fatal("expected a logger from the gologger provider")
	}
	logger.Info("container wired")
}

func TestContainerIngestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	doc := "---\ntitle: Wired\nsource: https://example.dev/wired\n---\n\nBody.\n"
	if err := os.WriteFile(filepath.Join(dir, "wired.md"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Ingest.BasePath = dir
	cfg.Features.Archive = true
	cfg.Archive.Driver = "memory"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	report, err := c.IngestService().IngestDirectory(context.Background(), ".", interfaces.IngestOptions{})
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if report.Indexed != 1 || c.Index().Len() != 1 {
		t.Fatalf("expected one indexed record, got report %d index %d", report.Indexed, c.Index().Len())
	}

	archived, err := c.ArchiveRepository().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(archived) != 1 || archived[0].Title != "Wired" {
		t.Fatalf("expected archived record, got %#v", archived)
	}
}
