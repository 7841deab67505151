package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-corpus/internal/identity"
	"github.com/goliatone/go-corpus/internal/index"
	"github.com/goliatone/go-corpus/pkg/interfaces"
	"github.com/goliatone/go-corpus/pkg/testsupport"
)

func buildIndex(t *testing.T) *index.Index {
	t.Helper()

	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []*interfaces.Record{
		{
			ID:          identity.RecordUUID("https://example.dev/a"),
			Title:       "Dated",
			SourceURL:   "https://example.dev/a",
			Domain:      "example.dev",
			PublishedAt: &published,
			CapturedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Category:    "performance",
			Tags:        []string{"alpha"},
		},
		{
			ID:         identity.RecordUUID("https://example.dev/b"),
			Title:      "Undated",
			SourceURL:  "https://example.dev/b",
			Domain:     "example.dev",
			CapturedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			Category:   "security",
			Tags:       []string{"alpha", "beta"},
		},
	}

	return index.Build(records)
}

func TestWriter_BuildSections(t *testing.T) {
	writer, err := NewWriter(buildIndex(t))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	snapshot := writer.Build()

	if snapshot.RecordCount != 2 || len(snapshot.Records) != 2 {
		t.Fatalf("expected two records, got %d", snapshot.RecordCount)
	}
	// Dated records come first in date order; undated follow by capture time.
	if snapshot.Records[0].Title != "Dated" || snapshot.Records[1].Title != "Undated" {
		t.Fatalf("unexpected record order: %q then %q", snapshot.Records[0].Title, snapshot.Records[1].Title)
	}
	if len(snapshot.Tags["alpha"]) != 2 || len(snapshot.Tags["beta"]) != 1 {
		t.Fatalf("unexpected tag sections: %#v", snapshot.Tags)
	}
	if len(snapshot.Categories["security"]) != 1 {
		t.Fatalf("unexpected category sections: %#v", snapshot.Categories)
	}
	if len(snapshot.Domains["example.dev"]) != 2 {
		t.Fatalf("unexpected domain sections: %#v", snapshot.Domains)
	}
}

func TestWriter_WriteEmitsValidJSON(t *testing.T) {
	writer, err := NewWriter(buildIndex(t))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	writer.clock = func() time.Time {
		return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded Snapshot
	if err := testsupport.LoadGoldenBytes(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if !decoded.GeneratedAt.Equal(time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected generated_at %v", decoded.GeneratedAt)
	}
	if decoded.RecordCount != 2 {
		t.Fatalf("unexpected record count %d", decoded.RecordCount)
	}
}

func TestWriter_WriteFilePublishesAtomically(t *testing.T) {
	writer, err := NewWriter(buildIndex(t))
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")
	if err := writer.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var decoded Snapshot
	if err := testsupport.LoadGolden(path, &decoded); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if decoded.RecordCount != 2 {
		t.Fatalf("unexpected record count %d", decoded.RecordCount)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestNewWriter_RequiresIndex(t *testing.T) {
	if _, err := NewWriter(nil); err != ErrIndexRequired {
		t.Fatalf("expected ErrIndexRequired, got %v", err)
	}
}
