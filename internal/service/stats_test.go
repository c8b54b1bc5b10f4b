package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ailingo/internal/domain"
	"ailingo/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockStatsRepo(active, left int, days []domain.Day, weeks []domain.WeekCount, countries []domain.CountryCount) *testutil.MockUserRepository {
	m := new(testutil.MockUserRepository)
	m.On("CurrentUserCount", mock.Anything).Return(active, nil)
	m.On("LeftUserCount", mock.Anything).Return(left, nil)
	m.On("UsersByJoinDay", mock.Anything).Return(days, nil)
	m.On("UsersByJoinWeek", mock.Anything).Return(weeks, nil)
	m.On("CountryBreakdown", mock.Anything).Return(countries, nil)
	return m
}

func TestStatsService_Snapshot_Empty(t *testing.T) {
	mockRepo := mockStatsRepo(0, 0, []domain.Day{}, []domain.WeekCount{}, []domain.CountryCount{})
	svc := NewStatsService(mockRepo, time.UTC, testutil.NewTestLogger())

	snap, err := svc.Snapshot(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, snap.Active)
	assert.Equal(t, 0, snap.Left)
	assert.Equal(t, 0, snap.NewToday)
	assert.Equal(t, 0, snap.NewThisWeek)
	assert.NotNil(t, snap.RecentDays)
	assert.Empty(t, snap.RecentDays)
	assert.NotNil(t, snap.Countries)
	assert.Empty(t, snap.Countries)
	mockRepo.AssertExpectations(t)
}

func TestStatsService_Snapshot(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	day := func(offset, count int) domain.Day {
		return testutil.NewTestDay(time.Date(2024, 6, 12-offset, 0, 0, 0, 0, time.UTC), count)
	}

	var days []domain.Day
	for i := 0; i < 9; i++ {
		days = append(days, day(i, i+1))
	}

	mockRepo := mockStatsRepo(12, 3,
		days,
		[]domain.WeekCount{{Week: "2024-W24", Count: 6}, {Week: "2024-W23", Count: 4}},
		[]domain.CountryCount{{Country: "NL", Count: 2}, {Country: "DE", Count: 5}, {Country: "BE", Count: 2}},
	)
	svc := NewStatsService(mockRepo, time.UTC, testutil.NewTestLogger())

	snap, err := svc.Snapshot(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 12, snap.Active)
	assert.Equal(t, 3, snap.Left)
	assert.Equal(t, 1, snap.NewToday)
	assert.Equal(t, 6, snap.NewThisWeek)
	assert.Len(t, snap.RecentDays, recentDays)
	assert.Equal(t, days[0], snap.RecentDays[0])
	assert.Equal(t, []domain.CountryCount{
		{Country: "DE", Count: 5},
		{Country: "NL", Count: 2},
		{Country: "BE", Count: 2},
	}, snap.Countries)
}

func TestStatsService_Snapshot_NoJoinsToday(t *testing.T) {
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	mockRepo := mockStatsRepo(1, 0,
		[]domain.Day{testutil.NewTestDay(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), 1)},
		[]domain.WeekCount{{Week: "2024-W24", Count: 1}},
		[]domain.CountryCount{},
	)
	svc := NewStatsService(mockRepo, time.UTC, testutil.NewTestLogger())

	snap, err := svc.Snapshot(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 0, snap.NewToday)
	assert.Equal(t, 1, snap.NewThisWeek)
}

func TestStatsService_Snapshot_Error(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("CurrentUserCount", mock.Anything).Return(0, domain.NewStorageError("count", errors.New("db")))

	svc := NewStatsService(mockRepo, nil, testutil.NewTestLogger())

	_, err := svc.Snapshot(context.Background(), time.Now())

	assert.ErrorIs(t, err, domain.ErrStorage)
}
