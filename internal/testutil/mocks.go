package testutil

import (
	"context"

	"ailingo/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, userID int64, username string, country *string) error {
	args := m.Called(ctx, userID, username, country)
	return args.Error(0)
}

func (m *MockUserRepository) MarkLeft(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateCountry(ctx context.Context, userID int64, country string) error {
	args := m.Called(ctx, userID, country)
	return args.Error(0)
}

func (m *MockUserRepository) CurrentUserCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) LeftUserCount(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) UsersByJoinDay(ctx context.Context) ([]domain.Day, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Day), args.Error(1)
}

func (m *MockUserRepository) UsersByJoinWeek(ctx context.Context) ([]domain.WeekCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WeekCount), args.Error(1)
}

func (m *MockUserRepository) CountryBreakdown(ctx context.Context) ([]domain.CountryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CountryCount), args.Error(1)
}

func (m *MockUserRepository) AllActiveUserIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockProgressRepository is a mock for ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) RecordSeen(ctx context.Context, userID int64, topic, wordKey string) error {
	args := m.Called(ctx, userID, topic, wordKey)
	return args.Error(0)
}

func (m *MockProgressRepository) CountSeen(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) SeenByTopic(ctx context.Context, userID int64) (map[string]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockSender is a mock for the broadcast Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendText(ctx context.Context, userID int64, text string) error {
	args := m.Called(ctx, userID, text)
	return args.Error(0)
}
