package archive

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryArchiveRepository_UpsertAndLookup(t *testing.T) {
	repo := NewMemoryArchiveRepository()
	ctx := context.Background()

	rec := sampleRecord("https://example.dev/posts/mem", "Memory record", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if _, err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	byID, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Title != "Memory record" {
		t.Fatalf("unexpected title %q", byID.Title)
	}

	bySource, err := repo.GetBySourceURL(ctx, rec.SourceURL)
	if err != nil {
		t.Fatalf("GetBySourceURL() error = %v", err)
	}
	if bySource.ID != rec.ID {
		t.Fatalf("source lookup returned wrong record %s", bySource.ID)
	}
}

func TestMemoryArchiveRepository_CallersCannotMutateStorage(t *testing.T) {
	repo := NewMemoryArchiveRepository()
	ctx := context.Background()

	rec := sampleRecord("https://example.dev/posts/iso", "Isolated", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if _, err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	fetched, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	fetched.Title = "mutated"
	fetched.Tags[0] = "mutated"

	again, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if again.Title != "Isolated" || again.Tags[0] != "sample" {
		t.Fatalf("stored record was mutated through a returned copy: %+v", again)
	}
}

func TestMemoryArchiveRepository_ListOrdersByCapture(t *testing.T) {
	repo := NewMemoryArchiveRepository()
	ctx := context.Background()

	late := sampleRecord("https://example.dev/posts/late", "Late", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	early := sampleRecord("https://example.dev/posts/early", "Early", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if _, err := repo.Upsert(ctx, late); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := repo.Upsert(ctx, early); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected two records, got %d", len(records))
	}
	if records[0].Title != "Early" || records[1].Title != "Late" {
		t.Fatalf("unexpected order: %q then %q", records[0].Title, records[1].Title)
	}
}

func TestMemoryArchiveRepository_MissingLookups(t *testing.T) {
	repo := NewMemoryArchiveRepository()
	ctx := context.Background()

	var notFound *NotFoundError
	if _, err := repo.GetBySourceURL(ctx, "https://example.dev/absent"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
