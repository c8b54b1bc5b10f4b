package handler

import (
	"context"
	"errors"

	"ailingo/internal/domain"
	"ailingo/internal/tts"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// dispatch runs an action through the core and sends the response chain
func (h *Handler) dispatch(c tele.Context, kind domain.ActionKind, payload string) error {
	ctx, cancel := h.context()
	defer cancel()

	a := action(c, kind, payload)
	resp, err := h.deps.Dispatcher.Handle(ctx, a)
	h.logResult(a, err)

	if c.Callback() != nil {
		if ackErr := c.Respond(); ackErr != nil {
			h.logger.Debug("Failed to acknowledge callback", zap.Error(ackErr))
		}
	}
	return h.reply(ctx, c, resp)
}

func (h *Handler) logResult(a domain.UserAction, err error) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.Int64("user_id", a.UserID),
		zap.String("action", string(a.Kind)),
		zap.Error(err),
	}
	if errors.Is(err, domain.ErrStorage) {
		h.logger.Error("Action failed", fields...)
		return
	}
	h.logger.Info("Action rejected", fields...)
}

// reply sends resp and every followup in order
func (h *Handler) reply(ctx context.Context, c tele.Context, resp domain.Response) error {
	for r := &resp; r != nil; r = r.Followup {
		if r.Text == "" && r.Speak == "" {
			continue
		}
		if err := h.send(ctx, c, *r); err != nil {
			return err
		}
	}
	return nil
}

// send delivers one response. A response that should be spoken goes out as
// audio with the text as caption, or as plain text when no audio is available.
func (h *Handler) send(ctx context.Context, c tele.Context, r domain.Response) error {
	opts := []interface{}{tele.ModeHTML}
	if m := markup(r); m != nil {
		opts = append(opts, m)
	}

	if r.Speak != "" && h.deps.Speaker != nil {
		path, err := h.deps.Speaker.Synthesize(ctx, r.SpeakKey, r.Speak)
		switch {
		case err == nil:
			audio := &tele.Audio{File: tele.FromDisk(path), Title: r.Speak, Caption: r.Text}
			sendErr := c.Send(audio, opts...)
			if sendErr == nil {
				return nil
			}
			h.logger.Warn("Failed to send audio, falling back to text", zap.String("word", r.SpeakKey), zap.Error(sendErr))
		case !errors.Is(err, tts.ErrUnavailable):
			h.logger.Warn("Speech synthesis failed", zap.String("word", r.SpeakKey), zap.Error(err))
		}
	}

	return c.Send(r.Text, opts...)
}

// markup renders response options as inline buttons, Columns per row
func markup(r domain.Response) *tele.ReplyMarkup {
	if len(r.Options) == 0 {
		return nil
	}

	m := &tele.ReplyMarkup{}
	btns := make([]tele.Btn, 0, len(r.Options))
	for _, o := range r.Options {
		btns = append(btns, m.Data(o.Label, uniqueByAction[o.Action], o.Token))
	}

	cols := r.Columns
	if cols <= 0 {
		cols = 1
	}
	m.Inline(m.Split(cols, btns)...)
	return m
}
