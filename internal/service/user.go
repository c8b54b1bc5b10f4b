package service

import (
	"context"
	"fmt"
	"strings"

	"ailingo/internal/domain"
	"ailingo/internal/repository"

	"golang.org/x/text/language"
)

// UserService handles registration, departures and admin checks
type UserService struct {
	userRepo repository.UserRepository
	adminID  int64
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, adminID int64) *UserService {
	return &UserService{
		userRepo: userRepo,
		adminID:  adminID,
	}
}

// Register creates the user record on first contact; later calls are no-ops
func (s *UserService) Register(ctx context.Context, userID int64, username string, country *string) error {
	return s.userRepo.RegisterUser(ctx, userID, username, country)
}

// MarkLeft records that the user blocked or left the bot
func (s *UserService) MarkLeft(ctx context.Context, userID int64) error {
	return s.userRepo.MarkLeft(ctx, userID)
}

// UpdateCountry validates an ISO 3166-1 country code and stores it upper-cased
func (s *UserService) UpdateCountry(ctx context.Context, userID int64, code string) (string, error) {
	country, err := NormalizeCountry(code)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.UpdateCountry(ctx, userID, country); err != nil {
		return "", err
	}
	return country, nil
}

// IsAdmin reports whether userID is the configured admin
func (s *UserService) IsAdmin(userID int64) bool {
	return s.adminID != 0 && userID == s.adminID
}

// AdminID returns the configured admin id
func (s *UserService) AdminID() int64 {
	return s.adminID
}

// ActiveUserIDs returns ids of users who have not left
func (s *UserService) ActiveUserIDs(ctx context.Context) ([]int64, error) {
	return s.userRepo.AllActiveUserIDs(ctx)
}

// CurrentUserCount returns the number of active users
func (s *UserService) CurrentUserCount(ctx context.Context) (int, error) {
	return s.userRepo.CurrentUserCount(ctx)
}

// NormalizeCountry turns "nl" or " NL " into "NL", rejecting anything that is
// not a country or territory code
func NormalizeCountry(code string) (string, error) {
	code = strings.TrimSpace(code)
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCountry, code)
	}
	return region.String(), nil
}
