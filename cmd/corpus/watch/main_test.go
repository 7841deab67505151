package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-corpus/cmd/corpus/internal/bootstrap"
	"github.com/goliatone/go-corpus/internal/logging"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

type stubIngestService struct {
	watchCalls int
	lastOpts   interfaces.WatchOptions
	watchErr   error
}

func (s *stubIngestService) IngestFile(context.Context, string, interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	return &interfaces.IngestReport{}, nil
}

func (s *stubIngestService) IngestDirectory(context.Context, string, interfaces.IngestOptions) (*interfaces.IngestReport, error) {
	return &interfaces.IngestReport{}, nil
}

func (s *stubIngestService) Watch(_ context.Context, opts interfaces.WatchOptions) error {
	s.watchCalls++
	s.lastOpts = opts
	return s.watchErr
}

func TestRunWatchUsesCommandHandler(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubIngestService{}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	var out bytes.Buffer
	if err := runWatch([]string{
		"-pattern", "*.md",
		"-debounce", "250ms",
		"-strict",
	}, &out); err != nil {
		t.Fatalf("runWatch returned error: %v", err)
	}
	if svc.watchCalls != 1 {
		t.Fatalf("expected watch to be called once, got %d", svc.watchCalls)
	}
	if svc.lastOpts.Pattern != "*.md" {
		t.Fatalf("expected pattern override, got %q", svc.lastOpts.Pattern)
	}
	if svc.lastOpts.Debounce != 250*time.Millisecond {
		t.Fatalf("expected 250ms debounce, got %s", svc.lastOpts.Debounce)
	}
	if !svc.lastOpts.Strict {
		t.Fatal("expected strict validation to be requested")
	}
	if !strings.Contains(out.String(), "watch stopped") {
		t.Fatalf("expected stop notice in output, got %q", out.String())
	}
}

func TestRunWatchTreatsCancellationAsCleanExit(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	svc := &stubIngestService{watchErr: context.Canceled}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	var out bytes.Buffer
	if err := runWatch(nil, &out); err != nil {
		t.Fatalf("expected cancellation to exit cleanly, got %v", err)
	}
}

func TestRunWatchSurfacesWatchFailure(t *testing.T) {
	original := moduleBuilder
	defer func() { moduleBuilder = original }()

	boom := errors.New("watcher exploded")
	svc := &stubIngestService{watchErr: boom}
	moduleBuilder = func(bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
		}, nil
	}

	var out bytes.Buffer
	err := runWatch(nil, &out)
	if err == nil {
		t.Fatal("expected watch failure to surface")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying watch error, got %v", err)
	}
}
