package archive

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// EnsureSchema creates the archive tables when they do not exist. SQLite
// deployments call this at startup instead of running a migration tool.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("archive: create corpus_records table: %w", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_corpus_records_source_url ON corpus_records(source_url)"); err != nil {
		return fmt.Errorf("archive: create source_url index: %w", err)
	}
	return nil
}
