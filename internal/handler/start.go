package handler

import (
	"html"
	"strconv"
	"strings"

	"ailingo/internal/domain"
	"ailingo/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	h.logger.Info("User started bot",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("username", c.Sender().Username),
	)
	return h.dispatch(c, domain.ActionRegister, "")
}

func (h *Handler) handleLanguage(c tele.Context) error {
	// Re-registering is a no-op that shows the language picker again
	return h.dispatch(c, domain.ActionRegister, "")
}

func (h *Handler) handleTopics(c tele.Context) error {
	return h.dispatch(c, domain.ActionListTopics, "")
}

func (h *Handler) handleWord(c tele.Context) error {
	return h.dispatch(c, domain.ActionRequestWord, "")
}

func (h *Handler) handleTest(c tele.Context) error {
	return h.dispatch(c, domain.ActionStartQuiz, "")
}

func (h *Handler) handleProgress(c tele.Context) error {
	return h.dispatch(c, domain.ActionRequestProgress, "")
}

func (h *Handler) handleCountry(c tele.Context) error {
	return h.dispatch(c, domain.ActionUpdateCountry, payload(c))
}

func (h *Handler) handleStats(c tele.Context) error {
	return h.dispatch(c, domain.ActionRequestStats, "")
}

// handleUsers replies with the number of active users
func (h *Handler) handleUsers(c tele.Context) error {
	ctx, cancel := h.context()
	defer cancel()

	count, err := h.deps.Users.CurrentUserCount(ctx)
	if err != nil {
		h.logger.Error("Failed to count users", zap.Error(err))
		return c.Send(h.text(c, "error_generic"))
	}
	return c.Send(h.text(c, "users_count", "count", count))
}

// handleBroadcast sends the command payload to every active user
func (h *Handler) handleBroadcast(c tele.Context) error {
	text := payload(c)
	if text == "" {
		return c.Send(h.text(c, "broadcast_usage"))
	}

	h.logger.Info("Broadcast requested", zap.Int64("admin_id", c.Sender().ID), zap.Int("length", len(text)))

	res, err := h.deps.Broadcaster.Broadcast(h.ctx, text)
	if err != nil {
		h.logger.Error("Broadcast failed", zap.Error(err))
		if res == (service.BroadcastResult{}) {
			return c.Send(h.text(c, "error_generic"))
		}
	}
	return c.Send(h.text(c, "broadcast_done", "sent", res.Sent, "failed", res.Failed, "left", res.Left))
}

// handleFeedback forwards the payload to the admin
func (h *Handler) handleFeedback(c tele.Context) error {
	text := payload(c)
	if text == "" {
		return c.Send(h.text(c, "feedback_usage"))
	}

	sender := c.Sender()
	adminID := h.deps.Users.AdminID()
	if adminID == 0 || h.messenger == nil {
		h.logger.Warn("Feedback dropped, no admin configured", zap.Int64("user_id", sender.ID))
		return c.Send(h.text(c, "feedback_thanks"))
	}

	forward := h.deps.Texts.T(h.deps.Texts.Fallback(), "feedback_forward",
		"name", html.EscapeString(feedbackName(sender)),
		"id", strconv.FormatInt(sender.ID, 10),
		"text", html.EscapeString(text),
	)
	if _, err := h.messenger.Send(tele.ChatID(adminID), forward, tele.ModeHTML); err != nil {
		h.logger.Error("Failed to forward feedback", zap.Int64("user_id", sender.ID), zap.Error(err))
		return c.Send(h.text(c, "error_generic"))
	}

	h.logger.Info("Feedback forwarded", zap.Int64("user_id", sender.ID))
	return c.Send(h.text(c, "feedback_thanks"))
}

func feedbackName(u *tele.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// handleDonate shows the donation link
func (h *Handler) handleDonate(c tele.Context) error {
	if h.deps.DonateURL == "" {
		return c.Send(h.text(c, "donate_text"))
	}
	m := &tele.ReplyMarkup{}
	m.Inline(m.Row(m.URL(h.text(c, "donate_button"), h.deps.DonateURL)))
	return c.Send(h.text(c, "donate_text"), m)
}

// payload returns the text after the command
func payload(c tele.Context) string {
	if msg := c.Message(); msg != nil {
		return strings.TrimSpace(msg.Payload)
	}
	return ""
}
