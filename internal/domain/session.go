package domain

// Session slot keys
const (
	SessionLocale  = "locale"
	SessionTopic   = "topic"
	SessionPending = "pending_question"
)
