package postgres

import (
	"context"
	"database/sql"

	"ailingo/internal/domain"
)

// ProgressRepo implements repository.ProgressRepository with set semantics:
// a (user, topic, word) row exists at most once.
type ProgressRepo struct {
	db *sql.DB
}

// NewProgressRepo creates a new progress repository
func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// RecordSeen marks a word as seen. Seeing it again is a no-op.
func (r *ProgressRepo) RecordSeen(ctx context.Context, userID int64, topic, wordKey string) error {
	query := `
		INSERT INTO progress (user_id, topic, word)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, topic, word) DO NOTHING
	`
	return withTx(ctx, r.db, "record seen", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, userID, topic, wordKey)
		return err
	})
}

// CountSeen returns the number of distinct words seen across all topics
func (r *ProgressRepo) CountSeen(ctx context.Context, userID int64) (int, error) {
	return queryCount(ctx, r.db, "count seen",
		`SELECT COUNT(DISTINCT word) FROM progress WHERE user_id = $1`, userID)
}

// SeenByTopic returns seen word counts keyed by topic. A word key seen under
// two topics is counted in both.
func (r *ProgressRepo) SeenByTopic(ctx context.Context, userID int64) (map[string]int, error) {
	query := `
		SELECT topic, COUNT(*) AS count
		FROM progress
		WHERE user_id = $1
		GROUP BY topic
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, domain.NewStorageError("seen by topic", err)
	}
	defer rows.Close()

	seen := make(map[string]int)
	for rows.Next() {
		var topic string
		var count int
		if err := rows.Scan(&topic, &count); err != nil {
			return nil, domain.NewStorageError("seen by topic", err)
		}
		seen[topic] = count
	}

	return seen, domain.NewStorageError("seen by topic", rows.Err())
}
