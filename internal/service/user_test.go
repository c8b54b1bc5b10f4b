package service

import (
	"context"
	"testing"

	"ailingo/internal/domain"
	"ailingo/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected string
		wantErr  bool
	}{
		{name: "lower case", code: "nl", expected: "NL"},
		{name: "padded", code: " de ", expected: "DE"},
		{name: "empty", code: "", wantErr: true},
		{name: "unknown region", code: "ZZ", wantErr: true},
		{name: "region group", code: "001", wantErr: true},
		{name: "not a code", code: "hello", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCountry(tt.code)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCountry)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestUserService_UpdateCountry(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("UpdateCountry", mock.Anything, int64(5), "NL").Return(nil)

	svc := NewUserService(mockRepo, 1)

	country, err := svc.UpdateCountry(context.Background(), 5, "nl")

	assert.NoError(t, err)
	assert.Equal(t, "NL", country)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateCountry_Invalid(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	svc := NewUserService(mockRepo, 1)

	_, err := svc.UpdateCountry(context.Background(), 5, "ZZ")

	assert.ErrorIs(t, err, domain.ErrInvalidCountry)
	mockRepo.AssertNotCalled(t, "UpdateCountry", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Register(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("RegisterUser", mock.Anything, int64(5), "anna", (*string)(nil)).Return(nil).Twice()

	svc := NewUserService(mockRepo, 1)

	assert.NoError(t, svc.Register(context.Background(), 5, "anna", nil))
	assert.NoError(t, svc.Register(context.Background(), 5, "anna", nil))
	mockRepo.AssertExpectations(t)
}

func TestUserService_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		adminID  int64
		userID   int64
		expected bool
	}{
		{name: "admin", adminID: 10, userID: 10, expected: true},
		{name: "regular user", adminID: 10, userID: 11, expected: false},
		{name: "no admin configured", adminID: 0, userID: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(new(testutil.MockUserRepository), tt.adminID)
			assert.Equal(t, tt.expected, svc.IsAdmin(tt.userID))
		})
	}
}
