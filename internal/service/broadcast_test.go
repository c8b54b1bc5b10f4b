package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ailingo/internal/domain"
	"ailingo/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBroadcastService_Broadcast(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("AllActiveUserIDs", mock.Anything).Return([]int64{1, 2, 3, 4}, nil)
	mockRepo.On("MarkLeft", mock.Anything, int64(2)).Return(nil)

	sender := new(testutil.MockSender)
	sender.On("SendText", mock.Anything, int64(1), "hallo").Return(nil)
	sender.On("SendText", mock.Anything, int64(2), "hallo").Return(fmt.Errorf("send: %w", ErrRecipientGone))
	sender.On("SendText", mock.Anything, int64(3), "hallo").Return(errors.New("timeout"))
	sender.On("SendText", mock.Anything, int64(4), "hallo").Return(nil)

	svc := NewBroadcastService(mockRepo, sender, 2, testutil.NewTestLogger())

	res, err := svc.Broadcast(context.Background(), "hallo")

	require.NoError(t, err)
	assert.Equal(t, BroadcastResult{Sent: 2, Failed: 1, Left: 1}, res)
	mockRepo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestBroadcastService_Broadcast_NoUsers(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("AllActiveUserIDs", mock.Anything).Return([]int64{}, nil)
	sender := new(testutil.MockSender)

	svc := NewBroadcastService(mockRepo, sender, 0, testutil.NewTestLogger())

	res, err := svc.Broadcast(context.Background(), "hallo")

	require.NoError(t, err)
	assert.Equal(t, BroadcastResult{}, res)
	sender.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}

func TestBroadcastService_Broadcast_RepoError(t *testing.T) {
	mockRepo := new(testutil.MockUserRepository)
	mockRepo.On("AllActiveUserIDs", mock.Anything).Return(nil, domain.NewStorageError("active ids", errors.New("db")))

	svc := NewBroadcastService(mockRepo, new(testutil.MockSender), 4, testutil.NewTestLogger())

	_, err := svc.Broadcast(context.Background(), "hallo")

	assert.ErrorIs(t, err, domain.ErrStorage)
}
