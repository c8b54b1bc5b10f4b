package postgres

import (
	"context"
	"database/sql"

	"ailingo/internal/domain"
)

// withTx runs fn in its own transaction. Any failure is rolled back and
// reported as a *domain.StorageError.
func withTx(ctx context.Context, db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError(op, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return domain.NewStorageError(op, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError(op, err)
	}
	return nil
}

// queryCount runs a single-value COUNT query
func queryCount(ctx context.Context, db *sql.DB, op, query string, args ...any) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, domain.NewStorageError(op, err)
	}
	return count, nil
}
