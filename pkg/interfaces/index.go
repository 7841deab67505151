package interfaces

import (
	"time"

	"github.com/google/uuid"
)

// CorpusIndex exposes read-only lookups over an ingested corpus. Query
// arguments are normalized the same way stored values are, so callers can pass
// raw user input. Unknown tags, categories, and domains yield empty slices,
// never errors, and no query mutates the index.
type CorpusIndex interface {
	ByID(id uuid.UUID) (*Record, bool)
	ByTag(tag string) []*Record
	ByCategory(category string) []*Record
	ByDomain(domain string) []*Record
	// ByDateRange returns records with a known publish date inside
	// [start, end] inclusive, ordered ascending. Records without a publish
	// date are never part of a range result.
	ByDateRange(start, end time.Time) []*Record
	// Records returns every indexed record in date order: published records
	// ascending by publish date, then undated records ascending by capture
	// date.
	Records() []*Record
	Tags() []string
	Categories() []string
	Len() int
}
