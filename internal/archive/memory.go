package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// MemoryArchiveRepository keeps records in process memory. It backs tests and
// dry-run tooling where durability is not wanted.
type MemoryArchiveRepository struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*interfaces.Record
	bySource map[string]uuid.UUID
}

var _ interfaces.ArchiveRepository = (*MemoryArchiveRepository)(nil)

func NewMemoryArchiveRepository() *MemoryArchiveRepository {
	return &MemoryArchiveRepository{
		byID:     make(map[uuid.UUID]*interfaces.Record),
		bySource: make(map[string]uuid.UUID),
	}
}

func (r *MemoryArchiveRepository) Upsert(_ context.Context, rec *interfaces.Record) (*interfaces.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneRecord(rec)
	r.byID[stored.ID] = stored
	r.bySource[stored.SourceURL] = stored.ID
	return cloneRecord(stored), nil
}

// GetByID retrieves a record by primary key, returning NotFoundError when absent.
func (r *MemoryArchiveRepository) GetByID(_ context.Context, id uuid.UUID) (*interfaces.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "record", Key: id.String()}
	}
	return cloneRecord(stored), nil
}

func (r *MemoryArchiveRepository) GetBySourceURL(_ context.Context, sourceURL string) (*interfaces.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySource[sourceURL]
	if !ok {
		return nil, &NotFoundError{Resource: "record", Key: sourceURL}
	}
	return cloneRecord(r.byID[id]), nil
}

// List returns all records ordered by capture time, oldest first.
func (r *MemoryArchiveRepository) List(_ context.Context) ([]*interfaces.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*interfaces.Record, 0, len(r.byID))
	for _, stored := range r.byID {
		records = append(records, cloneRecord(stored))
	}
	sortByCapture(records)
	return records, nil
}

func cloneRecord(rec *interfaces.Record) *interfaces.Record {
	return fromDomain(rec).toDomain()
}

func sortByCapture(records []*interfaces.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CapturedAt.Equal(records[j].CapturedAt) {
			return records[i].CapturedAt.Before(records[j].CapturedAt)
		}
		return records[i].SourceURL < records[j].SourceURL
	})
}
