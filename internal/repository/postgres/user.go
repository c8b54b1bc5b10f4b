package postgres

import (
	"context"
	"database/sql"

	"ailingo/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db       *sql.DB
	timezone string
}

// NewUserRepo creates a new user repository. Join days and weeks are
// bucketed in the given IANA timezone.
func NewUserRepo(db *sql.DB, timezone string) *UserRepo {
	if timezone == "" {
		timezone = "UTC"
	}
	return &UserRepo{db: db, timezone: timezone}
}

// RegisterUser inserts the user on first contact. Re-registration is a no-op
// and never touches the original join date.
func (r *UserRepo) RegisterUser(ctx context.Context, userID int64, username string, country *string) error {
	query := `
		INSERT INTO users (user_id, username, country)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	return withTx(ctx, r.db, "register user", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, userID, username, country)
		return err
	})
}

// MarkLeft flags the user as gone. Unknown users are ignored since a
// departure event may arrive before registration.
func (r *UserRepo) MarkLeft(ctx context.Context, userID int64) error {
	query := `UPDATE users SET "left" = TRUE WHERE user_id = $1`
	return withTx(ctx, r.db, "mark left", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, userID)
		return err
	})
}

// UpdateCountry overwrites the stored country, no-op for unknown users
func (r *UserRepo) UpdateCountry(ctx context.Context, userID int64, country string) error {
	query := `UPDATE users SET country = $2 WHERE user_id = $1`
	return withTx(ctx, r.db, "update country", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, userID, country)
		return err
	})
}

// CurrentUserCount returns the number of users who have not left
func (r *UserRepo) CurrentUserCount(ctx context.Context) (int, error) {
	return queryCount(ctx, r.db, "current user count",
		`SELECT COUNT(*) FROM users WHERE "left" = FALSE`)
}

// LeftUserCount returns the number of users who left
func (r *UserRepo) LeftUserCount(ctx context.Context) (int, error) {
	return queryCount(ctx, r.db, "left user count",
		`SELECT COUNT(*) FROM users WHERE "left" = TRUE`)
}

// UsersByJoinDay returns join counts per day, newest first
func (r *UserRepo) UsersByJoinDay(ctx context.Context) ([]domain.Day, error) {
	query := `
		SELECT DATE(join_date AT TIME ZONE $1) AS day, COUNT(*) AS count
		FROM users
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err := r.db.QueryContext(ctx, query, r.timezone)
	if err != nil {
		return nil, domain.NewStorageError("users by join day", err)
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, domain.NewStorageError("users by join day", err)
		}
		days = append(days, d)
	}

	return days, domain.NewStorageError("users by join day", rows.Err())
}

// UsersByJoinWeek returns join counts per ISO week ("2024-W07"), newest first
func (r *UserRepo) UsersByJoinWeek(ctx context.Context) ([]domain.WeekCount, error) {
	query := `
		SELECT to_char(join_date AT TIME ZONE $1, 'IYYY-"W"IW') AS week, COUNT(*) AS count
		FROM users
		GROUP BY week
		ORDER BY week DESC
	`

	rows, err := r.db.QueryContext(ctx, query, r.timezone)
	if err != nil {
		return nil, domain.NewStorageError("users by join week", err)
	}
	defer rows.Close()

	var weeks []domain.WeekCount
	for rows.Next() {
		var w domain.WeekCount
		if err := rows.Scan(&w.Week, &w.Count); err != nil {
			return nil, domain.NewStorageError("users by join week", err)
		}
		weeks = append(weeks, w)
	}

	return weeks, domain.NewStorageError("users by join week", rows.Err())
}

// CountryBreakdown counts active users with a known country, largest first
func (r *UserRepo) CountryBreakdown(ctx context.Context) ([]domain.CountryCount, error) {
	query := `
		SELECT country, COUNT(*) AS count
		FROM users
		WHERE "left" = FALSE AND country IS NOT NULL
		GROUP BY country
		ORDER BY count DESC, country ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("country breakdown", err)
	}
	defer rows.Close()

	var countries []domain.CountryCount
	for rows.Next() {
		var c domain.CountryCount
		if err := rows.Scan(&c.Country, &c.Count); err != nil {
			return nil, domain.NewStorageError("country breakdown", err)
		}
		countries = append(countries, c)
	}

	return countries, domain.NewStorageError("country breakdown", rows.Err())
}

// AllActiveUserIDs returns ids of users who have not left
func (r *UserRepo) AllActiveUserIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT user_id FROM users WHERE "left" = FALSE ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError("active user ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.NewStorageError("active user ids", err)
		}
		ids = append(ids, id)
	}

	return ids, domain.NewStorageError("active user ids", rows.Err())
}
