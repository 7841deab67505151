package index

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-corpus/internal/identity"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

func newRecord(source, title string, published *time.Time, captured time.Time, tags ...string) *interfaces.Record {
	if len(tags) == 0 {
		tags = []string{}
	}
	return &interfaces.Record{
		ID:          identity.RecordUUID(source),
		Title:       title,
		SourceURL:   source,
		PublishedAt: published,
		CapturedAt:  captured,
		Category:    "programming",
		Tags:        tags,
	}
}

func ts(value string) *time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	utc := parsed.UTC()
	return &utc
}

func TestIndex_TagAndCategoryRoundTrip(t *testing.T) {
	idx := New()
	rec := newRecord("https://x", "Foo", ts("2024-01-01T00:00:00Z"), time.Now(), "alpha", "beta")
	idx.Add(rec)

	byTag := idx.ByTag("alpha")
	if len(byTag) != 1 || byTag[0].ID != rec.ID {
		t.Fatalf("expected Foo record via tag, got %#v", byTag)
	}
	if got := idx.ByTag("gamma"); len(got) != 0 {
		t.Fatalf("expected empty result for unknown tag, got %d", len(got))
	}
	if got := idx.ByCategory("Programming"); len(got) != 1 {
		t.Fatalf("expected category lookup to normalize its argument, got %d", len(got))
	}
}

func TestBuild_Idempotent(t *testing.T) {
	records := []*interfaces.Record{
		newRecord("https://a", "A", ts("2024-01-01T00:00:00Z"), time.Now(), "alpha"),
		newRecord("https://b", "B", ts("2024-02-01T00:00:00Z"), time.Now(), "alpha", "beta"),
		newRecord("https://c", "C", nil, time.Now(), "beta"),
	}

	first := Build(records)
	second := Build(records)

	if first.Len() != second.Len() {
		t.Fatalf("expected identical lengths, got %d and %d", first.Len(), second.Len())
	}
	for _, tag := range []string{"alpha", "beta", "gamma"} {
		a, b := first.ByTag(tag), second.ByTag(tag)
		if len(a) != len(b) {
			t.Fatalf("tag %q results differ: %d vs %d", tag, len(a), len(b))
		}
		for i := range a {
			if a[i].ID != b[i].ID {
				t.Fatalf("tag %q order differs at %d", tag, i)
			}
		}
	}
}

func TestIndex_DuplicateLastCaptureWins(t *testing.T) {
	early := newRecord("https://y", "Early", nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "alpha")
	late := newRecord("https://y", "Late", nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "beta")

	idx := Build([]*interfaces.Record{early, late})

	if idx.Len() != 1 {
		t.Fatalf("expected single record after dedup, got %d", idx.Len())
	}
	rec, ok := idx.ByID(early.ID)
	if !ok || rec.Title != "Late" {
		t.Fatalf("expected later capture to win, got %#v", rec)
	}
	if got := idx.ByTag("alpha"); len(got) != 0 {
		t.Fatalf("expected replaced record removed from tag index, got %d", len(got))
	}
	if got := idx.ByTag("beta"); len(got) != 1 {
		t.Fatalf("expected winning record in tag index, got %d", len(got))
	}
}

func TestIndex_OlderCaptureIsNoOp(t *testing.T) {
	late := newRecord("https://y", "Late", nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	early := newRecord("https://y", "Early", nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	idx := New()
	if replaced := idx.Add(late); replaced {
		t.Fatalf("first insert should not report replacement")
	}
	if replaced := idx.Add(early); replaced {
		t.Fatalf("older capture should not replace")
	}

	rec, _ := idx.ByID(late.ID)
	if rec.Title != "Late" {
		t.Fatalf("expected later capture retained, got %q", rec.Title)
	}
}

func TestIndex_DateRange(t *testing.T) {
	idx := Build([]*interfaces.Record{
		newRecord("https://a", "A", ts("2024-01-15T00:00:00Z"), time.Now()),
		newRecord("https://b", "B", ts("2024-06-15T00:00:00Z"), time.Now()),
		newRecord("https://c", "C", ts("2025-01-15T00:00:00Z"), time.Now()),
		newRecord("https://d", "D", nil, time.Now(), "alpha"),
	})

	got := idx.ByDateRange(
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	if len(got) != 2 {
		t.Fatalf("expected two records in range, got %d", len(got))
	}
	if got[0].Title != "A" || got[1].Title != "B" {
		t.Fatalf("expected ascending order, got %q then %q", got[0].Title, got[1].Title)
	}

	// Undated records never appear in ranges but remain queryable by tag.
	if got := idx.ByDateRange(time.Time{}, time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)); len(got) != 3 {
		t.Fatalf("expected only dated records in range, got %d", len(got))
	}
	if got := idx.ByTag("alpha"); len(got) != 1 || got[0].Title != "D" {
		t.Fatalf("expected undated record via tag, got %#v", got)
	}
}

func TestIndex_RecordsOrdering(t *testing.T) {
	idx := Build([]*interfaces.Record{
		newRecord("https://undated-late", "UndatedLate", nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		newRecord("https://dated", "Dated", ts("2024-06-01T00:00:00Z"), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		newRecord("https://undated-early", "UndatedEarly", nil, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
	})

	records := idx.Records()
	if len(records) != 3 {
		t.Fatalf("expected three records, got %d", len(records))
	}
	if records[0].Title != "Dated" {
		t.Fatalf("dated records must come first, got %q", records[0].Title)
	}
	if records[1].Title != "UndatedEarly" || records[2].Title != "UndatedLate" {
		t.Fatalf("undated records must order by capture date, got %q then %q", records[1].Title, records[2].Title)
	}
}

func TestIndex_TagsAndCategories(t *testing.T) {
	idx := Build([]*interfaces.Record{
		newRecord("https://a", "A", nil, time.Now(), "beta", "alpha"),
	})

	tags := idx.Tags()
	if len(tags) != 2 || tags[0] != "alpha" || tags[1] != "beta" {
		t.Fatalf("expected sorted tags, got %#v", tags)
	}
	if cats := idx.Categories(); len(cats) != 1 || cats[0] != "programming" {
		t.Fatalf("expected categories, got %#v", cats)
	}
}

func TestIndex_NilRecordIgnored(t *testing.T) {
	idx := New()
	idx.Add(nil)
	idx.Add(&interfaces.Record{ID: uuid.Nil})
	if idx.Len() != 0 {
		t.Fatalf("expected empty index, got %d", idx.Len())
	}
}
