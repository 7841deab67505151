package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildModuleWiresIngestService(t *testing.T) {
	resources, err := BuildModule(Options{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	defer resources.Close()

	if resources.Module == nil {
		t.Fatal("expected module to be initialised")
	}
	if resources.Service == nil {
		t.Fatal("expected ingest service to be configured")
	}
	if resources.Index == nil {
		t.Fatal("expected index to be configured")
	}
	if resources.Logger == nil {
		t.Fatal("expected logger to be configured")
	}
	if resources.Gates.IngestEnabled == nil || !resources.Gates.IngestEnabled() {
		t.Fatal("expected ingest commands to be enabled by default")
	}
	if resources.Gates.WatchEnabled() {
		t.Fatal("expected watch feature to be off unless requested")
	}
	if resources.CommandTimeout == 0 {
		t.Fatal("expected a default command timeout")
	}
}

func TestBuildModuleWatchFeatureOptIn(t *testing.T) {
	resources, err := BuildModule(Options{BasePath: t.TempDir(), WatchFeature: true})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	defer resources.Close()

	if !resources.Gates.WatchEnabled() {
		t.Fatal("expected watch feature to be enabled")
	}
}

func TestBuildModuleOverlaysFlagsOnConfig(t *testing.T) {
	baseDir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "corpus.yaml")
	configYAML := "ingest:\n  base_path: " + baseDir + "\n  pattern: \"*.markdown\"\n  workers: 2\n"
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	strict := true
	resources, err := BuildModule(Options{
		ConfigPath: configPath,
		Workers:    4,
		Strict:     &strict,
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	defer resources.Close()

	cfg := resources.Module.Container().Config
	if cfg.Ingest.Pattern != "*.markdown" {
		t.Fatalf("expected config pattern to survive, got %q", cfg.Ingest.Pattern)
	}
	if cfg.Ingest.Workers != 4 {
		t.Fatalf("expected flag workers to win, got %d", cfg.Ingest.Workers)
	}
	if !cfg.Ingest.Strict {
		t.Fatal("expected strict flag to be applied")
	}
}

func TestBuildModuleRejectsMissingBasePath(t *testing.T) {
	if _, err := BuildModule(Options{BasePath: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected missing archive root to fail the build")
	}
}
