package handler

import (
	"errors"
	"html"
	"strings"

	"ailingo/internal/dictionary"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText looks up a single English word sent as plain text
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	word := strings.ToLower(text)
	if !dictionary.IsWord(word) || h.deps.Definer == nil {
		return nil
	}

	ctx, cancel := h.context()
	defer cancel()

	def, err := h.deps.Definer.Define(ctx, word)
	switch {
	case errors.Is(err, dictionary.ErrNotFound):
		return c.Send(h.text(c, "definition_not_found", "word", html.EscapeString(word)))
	case err != nil:
		h.logger.Warn("Dictionary lookup failed", zap.String("word", word), zap.Error(err))
		return c.Send(h.text(c, "definition_error"))
	}

	msg := h.text(c, "definition", "word", html.EscapeString(def.Word), "definition", html.EscapeString(def.Text))
	if def.Example != "" {
		msg += "\n\n" + h.text(c, "definition_example", "example", html.EscapeString(def.Example))
	}
	return c.Send(msg, tele.ModeHTML)
}
