package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"ailingo/internal/domain"
	"ailingo/internal/i18n"
	"ailingo/internal/metrics"
	"ailingo/internal/session"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dispatcher turns a normalized user action into a response. Core errors
// never escape as a crash: every error comes back together with a
// renderable, localized response.
type Dispatcher struct {
	users    *UserService
	words    *WordService
	quiz     *QuizService
	stats    *StatsService
	sessions *session.Manager
	catalog  Catalog
	texts    *i18n.Bundle
	logger   *zap.Logger
	now      func() time.Time
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(
	users *UserService,
	words *WordService,
	quiz *QuizService,
	stats *StatsService,
	sessions *session.Manager,
	catalog Catalog,
	texts *i18n.Bundle,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:    users,
		words:    words,
		quiz:     quiz,
		stats:    stats,
		sessions: sessions,
		catalog:  catalog,
		texts:    texts,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle processes one action. When err is non-nil the response already
// carries the user-facing explanation.
func (d *Dispatcher) Handle(ctx context.Context, a domain.UserAction) (domain.Response, error) {
	locale, err := d.sessions.Locale(ctx, a.UserID)
	if err != nil {
		d.logger.Warn("Failed to read session locale", zap.Int64("user_id", a.UserID), zap.Error(err))
	}

	var resp domain.Response
	switch a.Kind {
	case domain.ActionRegister:
		resp, err = d.register(ctx, a)
	case domain.ActionSelectLocale:
		resp, err = d.selectLocale(ctx, a)
	case domain.ActionListTopics:
		resp, err = d.topicPicker(locale, "choose_topic"), nil
	case domain.ActionSelectTopic:
		resp, err = d.selectTopic(ctx, a, locale)
	case domain.ActionRequestWord:
		resp, err = d.requestWord(ctx, a, locale)
	case domain.ActionStartQuiz:
		resp, err = d.startQuiz(ctx, a, locale)
	case domain.ActionSubmitAnswer:
		resp, err = d.submitAnswer(ctx, a, locale)
	case domain.ActionRequestStats:
		resp, err = d.requestStats(ctx, a, locale)
	case domain.ActionRequestProgress:
		resp, err = d.requestProgress(ctx, a, locale)
	case domain.ActionUpdateCountry:
		resp, err = d.updateCountry(ctx, a, locale)
	case domain.ActionLeave:
		resp, err = domain.Response{}, d.users.MarkLeft(ctx, a.UserID)
	default:
		err = fmt.Errorf("unsupported action %q", a.Kind)
	}

	if err != nil {
		return d.failure(locale, a, err), err
	}
	return resp, nil
}

func (d *Dispatcher) failure(locale string, a domain.UserAction, err error) domain.Response {
	switch {
	case errors.Is(err, domain.ErrUnknownTopic):
		return domain.Response{
			Text:    d.texts.T(locale, "unknown_topic", "topic", html.EscapeString(a.Payload)),
			Options: d.topicOptions(),
			Columns: 2,
		}
	case errors.Is(err, domain.ErrNoTopicSelected):
		return d.topicPicker(locale, "no_topic")
	case errors.Is(err, domain.ErrInsufficientData):
		return domain.Response{Text: d.texts.T(locale, "quiz_unavailable")}
	case errors.Is(err, domain.ErrNoActiveQuestion):
		return domain.Response{
			Text:    d.texts.T(locale, "no_active_question"),
			Options: []domain.Option{d.testOption(locale)},
		}
	case errors.Is(err, domain.ErrInvalidCountry):
		return domain.Response{Text: d.texts.T(locale, "invalid_country", "country", html.EscapeString(a.Payload))}
	case errors.Is(err, domain.ErrAccessDenied):
		return domain.Response{Text: d.texts.T(locale, "access_denied")}
	default:
		return domain.Response{Text: d.texts.T(locale, "error_generic")}
	}
}

func (d *Dispatcher) register(ctx context.Context, a domain.UserAction) (domain.Response, error) {
	if err := d.users.Register(ctx, a.UserID, a.DisplayName, nil); err != nil {
		return domain.Response{}, err
	}

	// Seed the locale from the client language until the user picks one
	locale, err := d.sessions.Get(ctx, a.UserID, domain.SessionLocale, "")
	if err != nil {
		return domain.Response{}, err
	}
	if locale == "" {
		locale = d.texts.Match(a.LanguageCode)
		if err := d.sessions.SetLocale(ctx, a.UserID, locale); err != nil {
			return domain.Response{}, err
		}
	}

	return d.languagePicker(locale), nil
}

func (d *Dispatcher) languagePicker(locale string) domain.Response {
	var options []domain.Option
	for _, l := range d.texts.Locales() {
		options = append(options, domain.Option{Label: l.Label, Action: domain.ActionSelectLocale, Token: l.Code})
	}
	return domain.Response{
		Text:    d.texts.T(locale, "choose_language"),
		Options: options,
		Columns: 2,
	}
}

func (d *Dispatcher) selectLocale(ctx context.Context, a domain.UserAction) (domain.Response, error) {
	if !d.texts.Has(a.Payload) {
		locale, _ := d.sessions.Locale(ctx, a.UserID)
		return d.languagePicker(locale), nil
	}
	if err := d.sessions.SetLocale(ctx, a.UserID, a.Payload); err != nil {
		return domain.Response{}, err
	}

	picker := d.topicPicker(a.Payload, "start", "name", html.EscapeString(a.DisplayName))
	return domain.Response{
		Text:     d.texts.T(a.Payload, "about"),
		Followup: &picker,
	}, nil
}

func (d *Dispatcher) topicPicker(locale, key string, args ...any) domain.Response {
	return domain.Response{
		Text:    d.texts.T(locale, key, args...),
		Options: d.topicOptions(),
		Columns: 2,
	}
}

func (d *Dispatcher) topicOptions() []domain.Option {
	var options []domain.Option
	for _, topic := range d.catalog.Topics() {
		options = append(options, domain.Option{
			Label:  TopicLabel(topic),
			Action: domain.ActionSelectTopic,
			Token:  topic,
		})
	}
	return options
}

// TopicLabel turns a topic file name such as "body_parts" into "Body Parts"
func TopicLabel(topic string) string {
	return cases.Title(language.Dutch).String(strings.ReplaceAll(topic, "_", " "))
}

func (d *Dispatcher) testOption(locale string) domain.Option {
	return domain.Option{Label: d.texts.T(locale, "test_button"), Action: domain.ActionStartQuiz}
}

func (d *Dispatcher) selectTopic(ctx context.Context, a domain.UserAction, locale string) (domain.Response, error) {
	topic := strings.TrimSpace(a.Payload)
	if !d.catalog.Has(topic) {
		return domain.Response{}, fmt.Errorf("%w: %q", domain.ErrUnknownTopic, topic)
	}
	if err := d.sessions.SetTopic(ctx, a.UserID, topic); err != nil {
		return domain.Response{}, err
	}

	word, err := d.present(ctx, a.UserID, topic, locale)
	if err != nil {
		return domain.Response{}, err
	}
	return domain.Response{
		Text:     d.texts.T(locale, "topic_chosen", "topic", TopicLabel(topic)),
		Followup: &word,
	}, nil
}

func (d *Dispatcher) currentTopic(ctx context.Context, userID int64) (string, error) {
	topic, err := d.sessions.Topic(ctx, userID)
	if err != nil {
		return "", err
	}
	if topic == "" {
		return "", domain.ErrNoTopicSelected
	}
	return topic, nil
}

func (d *Dispatcher) requestWord(ctx context.Context, a domain.UserAction, locale string) (domain.Response, error) {
	topic, err := d.currentTopic(ctx, a.UserID)
	if err != nil {
		return domain.Response{}, err
	}
	return d.present(ctx, a.UserID, topic, locale)
}

// present shows a word followed by the "new word" and "test" buttons
func (d *Dispatcher) present(ctx context.Context, userID int64, topic, locale string) (domain.Response, error) {
	p, err := d.words.PickWord(ctx, userID, topic, locale)
	if err != nil {
		if !errors.Is(err, domain.ErrStorage) || p.Native == "" {
			return domain.Response{}, err
		}
		// The word is still worth showing when only the progress write failed
		d.logger.Error("Failed to record seen word",
			zap.Int64("user_id", userID),
			zap.String("topic", topic),
			zap.String("word", p.Key),
			zap.Error(err),
		)
	}

	text := d.texts.T(locale, "word",
		"native", html.EscapeString(p.Native),
		"translation", html.EscapeString(p.Translation),
	)
	if p.Example != "" {
		text += "\n" + d.texts.T(locale, "word_example", "example", html.EscapeString(p.Example))
	}

	return domain.Response{
		Text:     text,
		Speak:    p.Native,
		SpeakKey: p.Key,
		Followup: &domain.Response{
			Text: d.texts.T(locale, "want_more"),
			Options: []domain.Option{
				{Label: d.texts.T(locale, "new_word_button"), Action: domain.ActionRequestWord},
				d.testOption(locale),
			},
		},
	}, nil
}

func (d *Dispatcher) startQuiz(ctx context.Context, a domain.UserAction, locale string) (domain.Response, error) {
	topic, err := d.currentTopic(ctx, a.UserID)
	if err != nil {
		return domain.Response{}, err
	}

	q, err := d.quiz.PoseQuestion(topic)
	if err != nil {
		return domain.Response{}, err
	}
	if err := d.sessions.SetPending(ctx, a.UserID, q); err != nil {
		return domain.Response{}, err
	}

	options := make([]domain.Option, 0, len(q.Options))
	for i, opt := range q.Options {
		options = append(options, domain.Option{
			Label:  opt,
			Action: domain.ActionSubmitAnswer,
			Token:  AnswerToken(q.ID, i),
		})
	}

	return domain.Response{
		Text:    d.texts.T(locale, "test_question", "word", html.EscapeString(q.Prompt)),
		Options: options,
	}, nil
}

// AnswerToken encodes a question id and option index as "<id>:<index>"
func AnswerToken(questionID string, index int) string {
	return questionID + ":" + strconv.Itoa(index)
}

// ParseAnswerToken is the inverse of AnswerToken
func ParseAnswerToken(token string) (string, int, error) {
	i := strings.LastIndexByte(token, ':')
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: malformed answer %q", domain.ErrNoActiveQuestion, token)
	}
	index, err := strconv.Atoi(token[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("%w: malformed answer %q", domain.ErrNoActiveQuestion, token)
	}
	return token[:i], index, nil
}

func (d *Dispatcher) submitAnswer(ctx context.Context, a domain.UserAction, locale string) (domain.Response, error) {
	id, index, err := ParseAnswerToken(a.Payload)
	if err != nil {
		return domain.Response{}, err
	}

	pending, err := d.sessions.Pending(ctx, a.UserID)
	if err != nil {
		return domain.Response{}, err
	}
	if pending == nil || pending.ID != id {
		return domain.Response{}, domain.ErrNoActiveQuestion
	}
	submitted, ok := pending.Option(index)
	if !ok {
		return domain.Response{}, fmt.Errorf("%w: option %d out of range", domain.ErrNoActiveQuestion, index)
	}

	verdict := d.quiz.GradeAnswer(*pending, submitted)

	// Catalog text goes into HTML templates
	prompt := html.EscapeString(pending.Prompt)
	answer := html.EscapeString(verdict.Submitted)

	var text string
	if verdict.Correct {
		metrics.Answers.WithLabelValues("correct").Inc()
		text = d.texts.T(locale, "test_correct", "word", prompt, "answer", answer)
	} else {
		metrics.Answers.WithLabelValues("incorrect").Inc()
		text = d.texts.T(locale, "test_wrong",
			"word", prompt,
			"correct", html.EscapeString(verdict.CorrectAnswer),
			"answer", answer,
		)
	}

	return domain.Response{
		Text: text,
		Followup: &domain.Response{
			Text:    d.texts.T(locale, "test_next"),
			Options: []domain.Option{d.testOption(locale)},
		},
	}, nil
}

func (d *Dispatcher) requestStats(ctx context.Context, a domain.UserAction, locale string) (domain.Response, error) {
	if !d.users.IsAdmin(a.UserID) {
		return domain.Response{}, domain.ErrAccessDenied
	}

	now := d.now()
	snap, err := d.stats.Snapshot(ctx, now)
	if err != nil {
		return domain.Response{}, err
	}
	return domain.Response{Text: d.formatStats(locale, snap, now)}, nil
}

func (d *Dispatcher) formatStats(locale string, snap domain.StatsSnapshot, now time.Time) string {
	var b strings.Builder
	b.WriteString(d.texts.T(locale, "stats",
		"active", snap.Active,
		"today", snap.NewToday,
		"week", snap.NewThisWeek,
		"left", snap.Left,
	))

	if len(snap.RecentDays) > 0 {
		b.WriteString("\n\n" + d.texts.T(locale, "stats_days"))
		for _, day := range snap.RecentDays {
			b.WriteString("\n" + d.texts.T(locale, "stats_day", "day", day.DisplayString(now), "count", day.Count))
		}
	}

	b.WriteString("\n\n")
	if len(snap.Countries) == 0 {
		b.WriteString(d.texts.T(locale, "stats_no_countries"))
		return b.String()
	}
	b.WriteString(d.texts.T(locale, "stats_countries"))
	for _, c := range snap.Countries {
		b.WriteString("\n" + d.texts.T(locale, "stats_country", "country", c.Country, "count", c.Count))
	}
	return b.String()
}

func (d *Dispatcher) requestProgress(ctx context.Context, a domain.UserAction, locale string) (domain.Response, error) {
	p, err := d.words.Progress(ctx, a.UserID)
	if err != nil {
		return domain.Response{}, err
	}

	var b strings.Builder
	b.WriteString(d.texts.T(locale, "progress", "count", p.TotalSeen))
	for _, t := range p.Topics {
		b.WriteString("\n" + d.texts.T(locale, "progress_topic", "topic", html.EscapeString(TopicLabel(t.Topic)), "seen", t.Seen, "total", t.Total))
	}
	return domain.Response{Text: b.String()}, nil
}

func (d *Dispatcher) updateCountry(ctx context.Context, a domain.UserAction, locale string) (domain.Response, error) {
	if strings.TrimSpace(a.Payload) == "" {
		return domain.Response{Text: d.texts.T(locale, "country_usage")}, nil
	}

	country, err := d.users.UpdateCountry(ctx, a.UserID, a.Payload)
	if err != nil {
		return domain.Response{}, err
	}
	return domain.Response{Text: d.texts.T(locale, "country_updated", "country", country)}, nil
}
