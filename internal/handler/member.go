package handler

import (
	"ailingo/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleMyChatMember marks users who blocked the bot as left. Only private
// chats count: in a group the sender is whoever removed the bot.
func (h *Handler) handleMyChatMember(c tele.Context) error {
	upd := c.ChatMember()
	if upd == nil || upd.NewChatMember == nil || c.Sender() == nil {
		return nil
	}
	if upd.Chat == nil || upd.Chat.Type != tele.ChatPrivate {
		h.logger.Debug("Ignoring membership change outside a private chat",
			zap.Int64("user_id", c.Sender().ID),
		)
		return nil
	}

	switch upd.NewChatMember.Role {
	case tele.Kicked, tele.Left:
		h.logger.Info("User left the bot", zap.Int64("user_id", c.Sender().ID))
		ctx, cancel := h.context()
		defer cancel()

		a := action(c, domain.ActionLeave, "")
		_, err := h.deps.Dispatcher.Handle(ctx, a)
		h.logResult(a, err)
	}
	return nil
}
