package handler

import (
	"context"
	"time"

	"ailingo/internal/dictionary"
	"ailingo/internal/domain"
	"ailingo/internal/i18n"
	"ailingo/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Dispatcher maps a user action onto a response
type Dispatcher interface {
	Handle(ctx context.Context, a domain.UserAction) (domain.Response, error)
}

// Users answers the admin-only questions the handler asks directly
type Users interface {
	IsAdmin(userID int64) bool
	AdminID() int64
	CurrentUserCount(ctx context.Context) (int, error)
}

// Broadcaster sends a message to all active users
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (service.BroadcastResult, error)
}

// Speaker voices a word and returns the audio file path
type Speaker interface {
	Synthesize(ctx context.Context, key, text string) (string, error)
}

// Definer looks up an English word
type Definer interface {
	Define(ctx context.Context, word string) (*dictionary.Definition, error)
}

// Locales resolves the locale a user reads in
type Locales interface {
	Locale(ctx context.Context, userID int64) (string, error)
}

// Messenger sends to an arbitrary chat; *tele.Bot implements it
type Messenger interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Deps are the collaborators of a Handler
type Deps struct {
	Dispatcher  Dispatcher
	Users       Users
	Broadcaster Broadcaster
	Speaker     Speaker
	Definer     Definer
	Locales     Locales
	Texts       *i18n.Bundle
	DonateURL   string
}

// Handler manages all bot interactions
type Handler struct {
	bot       *tele.Bot
	messenger Messenger
	deps      Deps
	ctx       context.Context
	timeout   time.Duration
	logger    *zap.Logger
}

// NewHandler creates a new handler instance. ctx bounds every update; it is
// cancelled on shutdown.
func NewHandler(ctx context.Context, bot *tele.Bot, deps Deps, logger *zap.Logger) *Handler {
	h := &Handler{
		bot:     bot,
		deps:    deps,
		ctx:     ctx,
		timeout: 30 * time.Second,
		logger:  logger,
	}
	if bot != nil {
		h.messenger = bot
	}
	return h
}

// Callback button uniques, one per action a button can trigger
const (
	uniqueLocale = "lang"
	uniqueTopic  = "topic"
	uniqueWord   = "word"
	uniqueTest   = "test"
	uniqueAnswer = "answer"
)

var uniqueByAction = map[domain.ActionKind]string{
	domain.ActionSelectLocale: uniqueLocale,
	domain.ActionSelectTopic:  uniqueTopic,
	domain.ActionRequestWord:  uniqueWord,
	domain.ActionStartQuiz:    uniqueTest,
	domain.ActionSubmitAnswer: uniqueAnswer,
}

var actionByUnique = map[string]domain.ActionKind{
	uniqueLocale: domain.ActionSelectLocale,
	uniqueTopic:  domain.ActionSelectTopic,
	uniqueWord:   domain.ActionRequestWord,
	uniqueTest:   domain.ActionStartQuiz,
	uniqueAnswer: domain.ActionSubmitAnswer,
}

// Commands published to Telegram, in menu order
var Commands = []tele.Command{
	{Text: "start", Description: "Start the bot"},
	{Text: "language", Description: "Change interface language"},
	{Text: "topic", Description: "Choose a topic"},
	{Text: "word", Description: "Show a new word"},
	{Text: "test", Description: "Test yourself"},
	{Text: "progress", Description: "Show your progress"},
	{Text: "country", Description: "Set your country"},
	{Text: "feedback", Description: "Send feedback to the admin"},
	{Text: "donate", Description: "Support the project"},
}

// CommandEndpoints lists every command route, admin ones included
func CommandEndpoints() []string {
	endpoints := []string{"/users", "/stats", "/broadcast"}
	for _, cmd := range Commands {
		endpoints = append(endpoints, "/"+cmd.Text)
	}
	return endpoints
}

// RegisterHandlers registers all bot handlers. admin guards the admin-only
// commands.
func (h *Handler) RegisterHandlers(admin tele.MiddlewareFunc) {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/language", h.handleLanguage)
	h.bot.Handle("/topic", h.handleTopics)
	h.bot.Handle("/word", h.handleWord)
	h.bot.Handle("/test", h.handleTest)
	h.bot.Handle("/progress", h.handleProgress)
	h.bot.Handle("/country", h.handleCountry)
	h.bot.Handle("/feedback", h.handleFeedback)
	h.bot.Handle("/donate", h.handleDonate)
	h.bot.Handle("/stats", h.handleStats)
	h.bot.Handle("/users", h.handleUsers, admin)
	h.bot.Handle("/broadcast", h.handleBroadcast, admin)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Users blocking or unblocking the bot
	h.bot.Handle(tele.OnMyChatMember, h.handleMyChatMember)

	// Callback queries (inline buttons)
	for unique := range actionByUnique {
		h.bot.Handle(&tele.Btn{Unique: unique}, h.handleCallback)
	}

	// Anything else that still carries a callback
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// PublishCommands sets the bot's command menu
func (h *Handler) PublishCommands() error {
	return h.bot.SetCommands(Commands)
}

// Denied replies to a user who tried an admin command
func (h *Handler) Denied(c tele.Context) error {
	return c.Send(h.text(c, "access_denied"))
}

// RateLimited replies to a user who is sending too fast
func (h *Handler) RateLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: h.text(c, "rate_limited")})
	}
	return c.Send(h.text(c, "rate_limited"))
}

func (h *Handler) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(h.ctx, h.timeout)
}

// locale returns the sender's locale, falling back silently
func (h *Handler) locale(ctx context.Context, c tele.Context) string {
	sender := c.Sender()
	if sender == nil {
		return h.deps.Texts.Fallback()
	}
	locale, err := h.deps.Locales.Locale(ctx, sender.ID)
	if err != nil {
		h.logger.Warn("Failed to read locale", zap.Int64("user_id", sender.ID), zap.Error(err))
		return h.deps.Texts.Fallback()
	}
	return locale
}

func (h *Handler) text(c tele.Context, key string, args ...any) string {
	ctx, cancel := h.context()
	defer cancel()
	return h.deps.Texts.T(h.locale(ctx, c), key, args...)
}

// action turns the update into a core action
func action(c tele.Context, kind domain.ActionKind, payload string) domain.UserAction {
	a := domain.UserAction{Kind: kind, Payload: payload}
	if sender := c.Sender(); sender != nil {
		a.UserID = sender.ID
		a.DisplayName = displayName(sender)
		a.LanguageCode = sender.LanguageCode
	}
	return a
}

func displayName(u *tele.User) string {
	switch {
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	default:
		return "friend"
	}
}
