package repository

import (
	"context"

	"ailingo/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	RegisterUser(ctx context.Context, userID int64, username string, country *string) error
	MarkLeft(ctx context.Context, userID int64) error
	UpdateCountry(ctx context.Context, userID int64, country string) error
	CurrentUserCount(ctx context.Context) (int, error)
	LeftUserCount(ctx context.Context) (int, error)
	UsersByJoinDay(ctx context.Context) ([]domain.Day, error)
	UsersByJoinWeek(ctx context.Context) ([]domain.WeekCount, error)
	CountryBreakdown(ctx context.Context) ([]domain.CountryCount, error)
	AllActiveUserIDs(ctx context.Context) ([]int64, error)
}

// ProgressRepository defines seen-word operations
type ProgressRepository interface {
	RecordSeen(ctx context.Context, userID int64, topic, wordKey string) error
	CountSeen(ctx context.Context, userID int64) (int, error)
	SeenByTopic(ctx context.Context, userID int64) (map[string]int, error)
}
