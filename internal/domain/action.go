package domain

// ActionKind names an inbound user action
type ActionKind string

const (
	ActionRegister        ActionKind = "register"
	ActionSelectLocale    ActionKind = "select_locale"
	ActionListTopics      ActionKind = "list_topics"
	ActionSelectTopic     ActionKind = "select_topic"
	ActionRequestWord     ActionKind = "request_word"
	ActionStartQuiz       ActionKind = "start_quiz"
	ActionSubmitAnswer    ActionKind = "submit_answer"
	ActionRequestStats    ActionKind = "request_stats"
	ActionRequestProgress ActionKind = "request_progress"
	ActionUpdateCountry   ActionKind = "update_country"
	ActionLeave           ActionKind = "leave"
)

// UserAction is a normalized inbound action from the chat transport
type UserAction struct {
	UserID      int64
	Kind        ActionKind
	Payload     string
	DisplayName string
	// LanguageCode is the client's language hint, e.g. "en-US"
	LanguageCode string
}

// Option is a button the transport renders. Action and Token are passed back
// as the next UserAction's Kind and Payload when the user presses it.
type Option struct {
	Label  string
	Action ActionKind
	Token  string
}

// Response is what the transport renders for the user
type Response struct {
	Text    string
	Options []Option
	// Columns is the number of buttons per row, 1 when zero
	Columns int
	// Speak is a native term to be voiced alongside Text, if any
	Speak    string
	SpeakKey string
	// Followup is sent as a separate message after this one
	Followup *Response
}
