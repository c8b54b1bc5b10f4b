package handler

import (
	"context"
	"errors"
	"fmt"

	"ailingo/internal/service"

	tele "gopkg.in/telebot.v3"
)

// Sender delivers broadcast messages through Telegram
type Sender struct {
	messenger Messenger
}

// NewSender wraps a bot (or any Messenger)
func NewSender(m Messenger) *Sender {
	return &Sender{messenger: m}
}

// SendText sends an HTML message. Users who blocked the bot or deleted their
// account are reported as service.ErrRecipientGone.
func (s *Sender) SendText(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.messenger.Send(tele.ChatID(userID), text, tele.ModeHTML)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tele.ErrBlockedByUser),
		errors.Is(err, tele.ErrUserIsDeactivated),
		errors.Is(err, tele.ErrChatNotFound):
		return fmt.Errorf("%w: %v", service.ErrRecipientGone, err)
	default:
		return err
	}
}
