package domain

import "time"

// User represents a bot user
type User struct {
	UserID   int64
	Username string
	JoinDate time.Time
	Country  *string
	Left     bool
}

// Active reports whether the user still receives messages from the bot
func (u User) Active() bool {
	return !u.Left
}
