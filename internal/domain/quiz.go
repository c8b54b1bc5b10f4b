package domain

// OptionCount is the number of answers offered for each quiz question
const OptionCount = 3

// Question is a posed multiple-choice question. It is kept in the user's
// session as the pending question until the next one replaces it.
type Question struct {
	ID      string   `json:"id"`
	Topic   string   `json:"topic"`
	Prompt  string   `json:"prompt"`
	Correct string   `json:"correct"`
	Options []string `json:"options"`
}

// Option returns the option at index i
func (q Question) Option(i int) (string, bool) {
	if i < 0 || i >= len(q.Options) {
		return "", false
	}
	return q.Options[i], true
}

// Verdict is the result of grading an answer
type Verdict struct {
	Correct       bool
	Submitted     string
	CorrectAnswer string
}
