package handler

import (
	"strings"
	"unicode"

	"ailingo/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// The same button was pressed twice and the first press already edited the message
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// callbackAction resolves the action a callback stands for. When telebot did
// not split out the unique, data still looks like "\f<unique>|<data>".
func callbackAction(cb *tele.Callback) (domain.ActionKind, string, bool) {
	unique, data := cb.Unique, cb.Data
	if unique == "" {
		unique, data, _ = strings.Cut(cleanCallbackData(data), "|")
	}

	kind, ok := actionByUnique[unique]
	return kind, cleanCallbackData(data), ok
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	kind, data, ok := callbackAction(callback)
	h.logger.Debug("Processing callback",
		zap.String("unique", callback.Unique),
		zap.String("data", data),
		zap.Int64("user_id", c.Sender().ID),
	)
	if !ok {
		h.logger.Warn("Unhandled callback",
			zap.String("data", callback.Data),
			zap.String("unique", callback.Unique),
		)
		return c.Respond()
	}

	if kind == domain.ActionSubmitAnswer {
		return h.handleAnswer(c, data)
	}
	return h.dispatch(c, kind, data)
}

// handleAnswer grades a quiz answer. The question message is edited into
// the verdict so its buttons go away; followups are sent as new messages.
func (h *Handler) handleAnswer(c tele.Context, data string) error {
	ctx, cancel := h.context()
	defer cancel()

	a := action(c, domain.ActionSubmitAnswer, data)
	resp, err := h.deps.Dispatcher.Handle(ctx, a)
	h.logResult(a, err)

	if err != nil || c.Message() == nil {
		_ = c.Respond()
		return h.reply(ctx, c, resp)
	}

	if editErr := c.Edit(resp.Text, tele.ModeHTML); editErr != nil {
		if h.handleEditError(editErr, c, a.UserID) == nil {
			return nil
		}
		return h.reply(ctx, c, resp)
	}

	_ = c.Respond()
	if resp.Followup == nil {
		return nil
	}
	return h.reply(ctx, c, *resp.Followup)
}
