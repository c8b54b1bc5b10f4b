package middleware

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// AdminChecker reports whether a user may run admin commands
type AdminChecker interface {
	IsAdmin(userID int64) bool
}

// AdminOnly lets admin updates through and hands everyone else to denied
func AdminOnly(admins AdminChecker, denied tele.HandlerFunc, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender != nil && admins.IsAdmin(sender.ID) {
				return next(c)
			}

			var userID int64
			if sender != nil {
				userID = sender.ID
			}
			logger.Warn("Admin command denied", zap.Int64("user_id", userID), zap.String("text", c.Text()))
			return denied(c)
		}
	}
}
