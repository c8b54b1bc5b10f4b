package service

import (
	"context"
	"errors"
	"sync/atomic"

	"ailingo/internal/metrics"
	"ailingo/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrRecipientGone is returned by a Sender when the user blocked the bot or
// deleted their account
var ErrRecipientGone = errors.New("recipient is gone")

// Sender delivers a text message to a user
type Sender interface {
	SendText(ctx context.Context, userID int64, text string) error
}

// BroadcastResult summarizes one broadcast
type BroadcastResult struct {
	Sent   int
	Failed int
	Left   int
}

// BroadcastService sends a message to every active user
type BroadcastService struct {
	userRepo    repository.UserRepository
	sender      Sender
	concurrency int
	logger      *zap.Logger
}

// NewBroadcastService creates a new broadcast service
func NewBroadcastService(userRepo repository.UserRepository, sender Sender, concurrency int, logger *zap.Logger) *BroadcastService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BroadcastService{
		userRepo:    userRepo,
		sender:      sender,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Broadcast sends text to all active users. A failed delivery does not stop
// the others; recipients that are gone are marked as left.
func (s *BroadcastService) Broadcast(ctx context.Context, text string) (BroadcastResult, error) {
	ids, err := s.userRepo.AllActiveUserIDs(ctx)
	if err != nil {
		return BroadcastResult{}, err
	}

	var sent, failed, left atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			err := s.sender.SendText(gctx, id, text)
			switch {
			case err == nil:
				sent.Add(1)
				metrics.Broadcasts.WithLabelValues("sent").Inc()
			case errors.Is(err, ErrRecipientGone):
				left.Add(1)
				metrics.Broadcasts.WithLabelValues("left").Inc()
				if markErr := s.userRepo.MarkLeft(gctx, id); markErr != nil {
					s.logger.Warn("Failed to mark user as left", zap.Int64("user_id", id), zap.Error(markErr))
				}
			default:
				failed.Add(1)
				metrics.Broadcasts.WithLabelValues("failed").Inc()
				s.logger.Warn("Broadcast delivery failed", zap.Int64("user_id", id), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	res := BroadcastResult{Sent: int(sent.Load()), Failed: int(failed.Load()), Left: int(left.Load())}
	s.logger.Info("Broadcast finished",
		zap.Int("recipients", len(ids)),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
		zap.Int("left", res.Left),
	)
	return res, ctx.Err()
}
