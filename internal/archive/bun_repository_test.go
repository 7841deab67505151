package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-corpus/internal/identity"
	"github.com/goliatone/go-corpus/pkg/interfaces"
	"github.com/goliatone/go-corpus/pkg/testsupport"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := testsupport.NewSQLiteMemoryDB("archive_test")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM corpus_records")
	})
	return db
}

func sampleRecord(sourceURL, title string, capturedAt time.Time) *interfaces.Record {
	return &interfaces.Record{
		ID:         identity.RecordUUID(sourceURL),
		Title:      title,
		SourceURL:  sourceURL,
		Domain:     "example.dev",
		CapturedAt: capturedAt,
		Category:   "uncategorized",
		Tags:       []string{"sample"},
		Body:       []byte("# " + title),
	}
}

func TestBunArchiveRepository_UpsertCreateThenUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunArchiveRepository(db)
	ctx := context.Background()

	first := sampleRecord("https://example.dev/posts/1", "First capture", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	stored, err := repo.Upsert(ctx, first)
	if err != nil {
		t.Fatalf("Upsert() create error = %v", err)
	}
	if stored.ID != first.ID {
		t.Fatalf("Upsert() changed the record id: %s vs %s", stored.ID, first.ID)
	}

	second := sampleRecord("https://example.dev/posts/1", "Second capture", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	if _, err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}

	fetched, err := repo.GetBySourceURL(ctx, "https://example.dev/posts/1")
	if err != nil {
		t.Fatalf("GetBySourceURL() error = %v", err)
	}
	if fetched.Title != "Second capture" {
		t.Fatalf("expected updated title, got %q", fetched.Title)
	}
	if !fetched.CapturedAt.Equal(second.CapturedAt) {
		t.Fatalf("expected updated capture time, got %v", fetched.CapturedAt)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single row after upsert, got %d", len(records))
	}
}

func TestBunArchiveRepository_GetByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunArchiveRepository(db)

	_, err := repo.GetByID(context.Background(), identity.RecordUUID("https://example.dev/absent"))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Resource != "record" {
		t.Fatalf("unexpected resource %q", notFound.Resource)
	}
}

func TestBunArchiveRepository_RoundTripFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunArchiveRepository(db)
	ctx := context.Background()

	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	author := "Jane Doe"
	rec := sampleRecord("https://example.dev/posts/full", "Full record", time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))
	rec.PublishedAt = &published
	rec.Author = &author
	rec.Technologies = []string{"postgresql", "redis"}
	rec.KeyConcepts = []string{"connection_pooling"}
	rec.CodeExamples = true
	rec.BodyHTML = []byte("<h1>Full record</h1>")

	if _, err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	fetched, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if fetched.PublishedAt == nil || !fetched.PublishedAt.Equal(published) {
		t.Fatalf("published date lost in round trip: %v", fetched.PublishedAt)
	}
	if fetched.Author == nil || *fetched.Author != author {
		t.Fatalf("author lost in round trip: %v", fetched.Author)
	}
	if len(fetched.Technologies) != 2 || fetched.Technologies[0] != "postgresql" {
		t.Fatalf("technologies lost in round trip: %v", fetched.Technologies)
	}
	if !fetched.CodeExamples {
		t.Fatalf("code_examples flag lost in round trip")
	}
	if string(fetched.BodyHTML) != "<h1>Full record</h1>" {
		t.Fatalf("rendered body lost in round trip: %q", fetched.BodyHTML)
	}
}
