package middleware

import (
	"strings"
	"time"

	"ailingo/internal/metrics"

	tele "gopkg.in/telebot.v3"
)

// Metrics records the count and duration of every update by endpoint.
// Commands outside known are reported as "command" to bound label values.
func Metrics(known ...string) tele.MiddlewareFunc {
	commands := make(map[string]bool, len(known))
	for _, cmd := range known {
		commands[cmd] = true
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			endpoint := Endpoint(c, commands)
			start := time.Now()

			err := next(c)

			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.Updates.WithLabelValues(endpoint, status).Inc()
			metrics.UpdateDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Endpoint names the kind of update: "/start", "callback:topic", "text",
// "member" and so on
func Endpoint(c tele.Context, commands map[string]bool) string {
	if cb := c.Callback(); cb != nil {
		if cb.Unique != "" {
			return "callback:" + cb.Unique
		}
		return "callback"
	}
	if c.ChatMember() != nil {
		return "member"
	}
	if c.Message() == nil {
		return "other"
	}

	text := c.Message().Text
	if !strings.HasPrefix(text, "/") {
		return "text"
	}

	cmd := strings.Fields(text)[0]
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	if commands[cmd] {
		return cmd
	}
	return "command"
}
