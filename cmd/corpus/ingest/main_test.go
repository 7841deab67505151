package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

type stubIngestService struct {
	directoryCalls int
	lastDir        string
	lastOpts       interfaces.IngestOptions
	report         *interfaces.IngestReport
}

func (s *stubIngestService) IngestFile(context.Context, string, interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	return &interfaces.IngestReport{}, nil
}

func (s *stubIngestService) IngestDirectory(_ context.Context, dir string, opts interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	s.directoryCalls++
	s.lastDir = dir
	s.lastOpts = opts
	if s.report != nil {
		return s.report, nil
	}
	return &interfaces.IngestReport{}, nil
}

func (s *stubIngestService) Watch(ctx context.Context, _ interfaces.WatchOptions) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunIngestUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubIngestService{
		report: &interfaces.IngestReport{
			FilesSeen: 3,
			Indexed:   2,
			Invalid: []interfaces.InvalidRecord{
				{Path: "notes/bad.md", Reasons: []interfaces.Reason{{Field: "title", Message: "title is required"}}},
			},
			ReasonCounts: map[string]int{"title": 1},
		},
	}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	var out bytes.Buffer
	if err := runIngest([]string{
		"-directory", "articles",
		"-workers", "2",
		"-strict",
	}, &out); err != nil {
		t.Fatalf("runIngest returned error: %v", err)
	}
	if svc.directoryCalls != 1 {
		t.Fatalf("expected ingest to be called once, got %d", svc.directoryCalls)
	}
	if svc.lastDir != "articles" {
		t.Fatalf("expected ingest directory articles, got %s", svc.lastDir)
	}
	if svc.lastOpts.Workers != 2 {
		t.Fatalf("expected 2 workers, got %d", svc.lastOpts.Workers)
	}
	if !svc.lastOpts.Strict {
		t.Fatal("expected strict validation to be requested")
	}

	summary := out.String()
	if !strings.Contains(summary, "3 seen, 2 indexed") {
		t.Fatalf("expected report summary in output, got %q", summary)
	}
	if !strings.Contains(summary, "title: 1 invalid") {
		t.Fatalf("expected grouped reason counts in output, got %q", summary)
	}
	if strings.Contains(summary, "notes/bad.md") {
		t.Fatalf("expected summary counts only, got per-file output: %q", summary)
	}
}

func TestRunIngestPropagatesBuilderError(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return nil, context.DeadlineExceeded
	}

	var out bytes.Buffer
	if err := runIngest(nil, &out); err == nil {
		t.Fatal("expected bootstrap failure to surface")
	}
}

func TestRunIngestForwardsOverrides(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	var captured bootstrap.Options
	moduleBuilder = func(opts bootstrap.Options) (*bootstrap.Module, error) {
		captured = opts
		return &bootstrap.Module{
			Service: &stubIngestService{},
			Logger:  logging.NoOp(),
		}, nil
	}

	var out bytes.Buffer
	if err := runIngest([]string{
		"-base-dir", "/srv/archive",
		"-pattern", "*.markdown",
		"-archive", "sqlite",
		"-archive-dsn", "file:corpus.db",
	}, &out); err != nil {
		t.Fatalf("runIngest returned error: %v", err)
	}
	if captured.BasePath != "/srv/archive" {
		t.Fatalf("expected base path override, got %q", captured.BasePath)
	}
	if captured.Pattern != "*.markdown" {
		t.Fatalf("expected pattern override, got %q", captured.Pattern)
	}
	if captured.ArchiveDriver != "sqlite" || captured.ArchiveDSN != "file:corpus.db" {
		t.Fatalf("expected archive overrides, got %q %q", captured.ArchiveDriver, captured.ArchiveDSN)
	}
}
