package index

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-corpus/internal/record"
	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// Index aggregates validated records into tag, category, domain, and
// date-ordered lookup structures. It is an explicit object so independent
// ingestion runs never interfere; there is no package-level instance.
//
// Writes come from a single ingestion collector; the mutex exists so queries
// stay safe while a rebuild is in flight.
type Index struct {
	mu         sync.RWMutex
	records    map[uuid.UUID]*interfaces.Record
	tags       map[string]map[uuid.UUID]struct{}
	categories map[string]map[uuid.UUID]struct{}
	domains    map[string]map[uuid.UUID]struct{}
	ordered    []uuid.UUID
	dirty      bool
}

var _ interfaces.CorpusIndex = (*Index)(nil)

// New returns an empty index.
func New() *Index {
	return &Index{
		records:    make(map[uuid.UUID]*interfaces.Record),
		tags:       make(map[string]map[uuid.UUID]struct{}),
		categories: make(map[string]map[uuid.UUID]struct{}),
		domains:    make(map[string]map[uuid.UUID]struct{}),
	}
}

// Build constructs an index from a batch of records. Calling it twice with
// the same input yields identical query results: duplicates collapse by id
// with the later capture winning.
func Build(records []*interfaces.Record) *Index {
	idx := New()
	for _, rec := range records {
		idx.Add(rec)
	}
	return idx
}

// Add inserts a record. On a duplicate id the later capturedAt wins in every
// lookup structure; re-adding an older capture is a no-op. The returned flag
// reports whether an existing record was replaced, so callers can log the
// collision as an informational event.
func (idx *Index) Add(rec *interfaces.Record) (replaced bool) {
	if rec == nil || rec.ID == uuid.Nil {
		return false
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.records[rec.ID]; ok {
		if !rec.CapturedAt.After(existing.CapturedAt) {
			return false
		}
		idx.remove(existing)
		replaced = true
	}

	idx.records[rec.ID] = rec
	for _, tag := range rec.Tags {
		idx.insert(idx.tags, tag, rec.ID)
	}
	idx.insert(idx.categories, rec.Category, rec.ID)
	if rec.Domain != "" {
		idx.insert(idx.domains, rec.Domain, rec.ID)
	}
	idx.dirty = true
	return replaced
}

// ByID returns the record for the given identifier.
func (idx *Index) ByID(id uuid.UUID) (*interfaces.Record, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rec, ok := idx.records[id]
	return rec, ok
}

// ByTag returns every record whose tag set contains the normalized tag, in
// date order. Unknown tags yield an empty slice.
func (idx *Index) ByTag(tag string) []*interfaces.Record {
	return idx.lookup(idx.tags, record.NormalizeKey(tag))
}

// ByCategory returns every record in the normalized category, in date order.
func (idx *Index) ByCategory(category string) []*interfaces.Record {
	return idx.lookup(idx.categories, record.NormalizeKey(category))
}

// ByDomain returns every record captured from the normalized domain.
func (idx *Index) ByDomain(domain string) []*interfaces.Record {
	return idx.lookup(idx.domains, record.NormalizeKey(domain))
}

// ByDateRange returns records published within [start, end] inclusive,
// ascending. Records without a publish date are never part of the result.
func (idx *Index) ByDateRange(start, end time.Time) []*interfaces.Record {
	idx.mu.Lock()
	idx.reorder()
	ordered := append([]uuid.UUID(nil), idx.ordered...)
	idx.mu.Unlock()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := []*interfaces.Record{}
	for _, id := range ordered {
		rec := idx.records[id]
		if rec == nil || rec.PublishedAt == nil {
			continue
		}
		published := *rec.PublishedAt
		if published.Before(start) || published.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Records returns every indexed record in date order: published records
// ascending, then undated records ascending by capture date.
func (idx *Index) Records() []*interfaces.Record {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.reorder()
	out := make([]*interfaces.Record, 0, len(idx.ordered))
	for _, id := range idx.ordered {
		out = append(out, idx.records[id])
	}
	return out
}

// Tags returns the sorted set of known tags.
func (idx *Index) Tags() []string {
	return sortedKeys(idx, idx.tags)
}

// Categories returns the sorted set of known categories.
func (idx *Index) Categories() []string {
	return sortedKeys(idx, idx.categories)
}

// Len reports the number of indexed records.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

func (idx *Index) insert(bucket map[string]map[uuid.UUID]struct{}, key string, id uuid.UUID) {
	if key == "" {
		return
	}
	ids, ok := bucket[key]
	if !ok {
		ids = make(map[uuid.UUID]struct{})
		bucket[key] = ids
	}
	ids[id] = struct{}{}
}

func (idx *Index) remove(rec *interfaces.Record) {
	for _, tag := range rec.Tags {
		idx.erase(idx.tags, tag, rec.ID)
	}
	idx.erase(idx.categories, rec.Category, rec.ID)
	idx.erase(idx.domains, rec.Domain, rec.ID)
	delete(idx.records, rec.ID)
	idx.dirty = true
}

func (idx *Index) erase(bucket map[string]map[uuid.UUID]struct{}, key string, id uuid.UUID) {
	ids, ok := bucket[key]
	if !ok {
		return
	}
	delete(ids, id)
	if len(ids) == 0 {
		delete(bucket, key)
	}
}

func (idx *Index) lookup(bucket map[string]map[uuid.UUID]struct{}, key string) []*interfaces.Record {
	if key == "" {
		return []*interfaces.Record{}
	}

	idx.mu.Lock()
	idx.reorder()
	ordered := append([]uuid.UUID(nil), idx.ordered...)
	idx.mu.Unlock()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ids, ok := bucket[key]
	if !ok {
		return []*interfaces.Record{}
	}

	out := make([]*interfaces.Record, 0, len(ids))
	for _, id := range ordered {
		if _, member := ids[id]; member {
			out = append(out, idx.records[id])
		}
	}
	return out
}

// reorder rebuilds the date-ordered id sequence. Callers must hold the write
// lock.
func (idx *Index) reorder() {
	if !idx.dirty {
		return
	}

	idx.ordered = idx.ordered[:0]
	for id := range idx.records {
		idx.ordered = append(idx.ordered, id)
	}

	sort.SliceStable(idx.ordered, func(i, j int) bool {
		a := idx.records[idx.ordered[i]]
		b := idx.records[idx.ordered[j]]
		return recordLess(a, b)
	})
	idx.dirty = false
}

// recordLess orders dated records ascending by publish date; undated records
// come after every dated one, ordered by capture date. Source URL breaks the
// remaining ties deterministically.
func recordLess(a, b *interfaces.Record) bool {
	switch {
	case a.PublishedAt != nil && b.PublishedAt != nil:
		if !a.PublishedAt.Equal(*b.PublishedAt) {
			return a.PublishedAt.Before(*b.PublishedAt)
		}
	case a.PublishedAt != nil:
		return true
	case b.PublishedAt != nil:
		return false
	default:
		if !a.CapturedAt.Equal(b.CapturedAt) {
			return a.CapturedAt.Before(b.CapturedAt)
		}
	}
	return a.SourceURL < b.SourceURL
}

func sortedKeys(idx *Index, bucket map[string]map[uuid.UUID]struct{}) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := make([]string, 0, len(bucket))
	for key := range bucket {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
