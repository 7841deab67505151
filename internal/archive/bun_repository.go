package archive

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// BunArchiveRepository persists corpus records through a Bun-backed database.
type BunArchiveRepository struct {
	repo repository.Repository[*Record]
}

var _ interfaces.ArchiveRepository = (*BunArchiveRepository)(nil)

func NewBunArchiveRepository(db *bun.DB) *BunArchiveRepository {
	return NewBunArchiveRepositoryWithCache(db, nil, nil)
}

// NewBunArchiveRepositoryWithCache constructs an ArchiveRepository with
// optional read-through caching.
func NewBunArchiveRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunArchiveRepository {
	base := NewRecordRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunArchiveRepository{repo: wrapped}
}

// Upsert stores the record, replacing any previous snapshot of the same
// source URL. The returned record reflects what was persisted.
func (r *BunArchiveRepository) Upsert(ctx context.Context, rec *interfaces.Record) (*interfaces.Record, error) {
	model := fromDomain(rec)
	now := time.Now().UTC()
	model.UpdatedAt = now

	existing, err := r.repo.GetByID(ctx, model.ID.String())
	if err != nil {
		if !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, fmt.Errorf("archive repository error: %w", err)
		}
		model.CreatedAt = now
		created, err := r.repo.Create(ctx, model)
		if err != nil {
			return nil, fmt.Errorf("archive repository error: %w", err)
		}
		return created.toDomain(), nil
	}

	model.CreatedAt = existing.CreatedAt
	updated, err := r.repo.Update(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("archive repository error: %w", err)
	}
	return updated.toDomain(), nil
}

func (r *BunArchiveRepository) GetByID(ctx context.Context, id uuid.UUID) (*interfaces.Record, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "record", id.String())
	}
	return result.toDomain(), nil
}

func (r *BunArchiveRepository) GetBySourceURL(ctx context.Context, sourceURL string) (*interfaces.Record, error) {
	result, err := r.repo.GetByIdentifier(ctx, sourceURL)
	if err != nil {
		return nil, mapRepositoryError(err, "record", sourceURL)
	}
	return result.toDomain(), nil
}

func (r *BunArchiveRepository) List(ctx context.Context) ([]*interfaces.Record, error) {
	models, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("archive repository error: %w", err)
	}
	records := make([]*interfaces.Record, 0, len(models))
	for _, model := range models {
		records = append(records, model.toDomain())
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
