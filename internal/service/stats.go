package service

import (
	"context"
	"sort"
	"time"

	"ailingo/internal/domain"
	"ailingo/internal/repository"

	"go.uber.org/zap"
)

// recentDays is how many join days a snapshot lists
const recentDays = 7

// StatsService builds read-only admin statistics
type StatsService struct {
	userRepo repository.UserRepository
	location *time.Location
	logger   *zap.Logger
}

// NewStatsService creates a new stats service. Days and weeks are evaluated
// in loc, which must match the repository's bucketing timezone.
func NewStatsService(userRepo repository.UserRepository, loc *time.Location, logger *zap.Logger) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{
		userRepo: userRepo,
		location: loc,
		logger:   logger,
	}
}

// Snapshot computes the current stats. An empty store yields zero counts.
func (s *StatsService) Snapshot(ctx context.Context, now time.Time) (domain.StatsSnapshot, error) {
	var snap domain.StatsSnapshot
	var err error

	if snap.Active, err = s.userRepo.CurrentUserCount(ctx); err != nil {
		return domain.StatsSnapshot{}, err
	}
	if snap.Left, err = s.userRepo.LeftUserCount(ctx); err != nil {
		return domain.StatsSnapshot{}, err
	}

	days, err := s.userRepo.UsersByJoinDay(ctx)
	if err != nil {
		return domain.StatsSnapshot{}, err
	}
	weeks, err := s.userRepo.UsersByJoinWeek(ctx)
	if err != nil {
		return domain.StatsSnapshot{}, err
	}
	countries, err := s.userRepo.CountryBreakdown(ctx)
	if err != nil {
		return domain.StatsSnapshot{}, err
	}

	local := now.In(s.location)
	for _, d := range days {
		if d.Date.Year() == local.Year() && d.Date.Month() == local.Month() && d.Date.Day() == local.Day() {
			snap.NewToday = d.Count
			break
		}
	}

	thisWeek := domain.ISOWeek(local)
	for _, w := range weeks {
		if w.Week == thisWeek {
			snap.NewThisWeek = w.Count
			break
		}
	}

	if len(days) > recentDays {
		days = days[:recentDays]
	}
	snap.RecentDays = append([]domain.Day{}, days...)

	snap.Countries = append([]domain.CountryCount{}, countries...)
	sort.SliceStable(snap.Countries, func(i, j int) bool {
		return snap.Countries[i].Count > snap.Countries[j].Count
	})

	s.logger.Debug("Stats snapshot computed",
		zap.Int("active", snap.Active),
		zap.Int("left", snap.Left),
		zap.Int("countries", len(snap.Countries)),
	)

	return snap, nil
}
