package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// ArchiveRepository persists ingested records between runs. The in-memory
// index remains the query surface; the archive is a durable snapshot keyed by
// source URL so re-ingestion can upsert rather than duplicate.
type ArchiveRepository interface {
	Upsert(ctx context.Context, record *Record) (*Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetBySourceURL(ctx context.Context, sourceURL string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
}
