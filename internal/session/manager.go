package session

import (
	"context"
	"encoding/json"
	"fmt"

	"ailingo/internal/domain"
)

// Manager gives typed access to a user's session slots
type Manager struct {
	store         Store
	defaultLocale string
}

// NewManager wraps a store. defaultLocale is returned for users who never
// picked a locale.
func NewManager(store Store, defaultLocale string) *Manager {
	return &Manager{store: store, defaultLocale: defaultLocale}
}

// Get returns the slot value or def when unset
func (m *Manager) Get(ctx context.Context, userID int64, key, def string) (string, error) {
	v, ok, err := m.store.Get(ctx, userID, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Set stores a slot value
func (m *Manager) Set(ctx context.Context, userID int64, key, value string) error {
	return m.store.Set(ctx, userID, key, value)
}

// Locale returns the user's locale or the default one
func (m *Manager) Locale(ctx context.Context, userID int64) (string, error) {
	return m.Get(ctx, userID, domain.SessionLocale, m.defaultLocale)
}

// SetLocale stores the user's locale
func (m *Manager) SetLocale(ctx context.Context, userID int64, locale string) error {
	return m.Set(ctx, userID, domain.SessionLocale, locale)
}

// Topic returns the selected topic, empty when none
func (m *Manager) Topic(ctx context.Context, userID int64) (string, error) {
	return m.Get(ctx, userID, domain.SessionTopic, "")
}

// SetTopic stores the selected topic
func (m *Manager) SetTopic(ctx context.Context, userID int64, topic string) error {
	return m.Set(ctx, userID, domain.SessionTopic, topic)
}

// Pending returns the pending quiz question, nil when there is none
func (m *Manager) Pending(ctx context.Context, userID int64) (*domain.Question, error) {
	raw, ok, err := m.store.Get(ctx, userID, domain.SessionPending)
	if err != nil || !ok {
		return nil, err
	}

	var q domain.Question
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return nil, fmt.Errorf("decode pending question: %w", err)
	}
	return &q, nil
}

// SetPending replaces the pending quiz question
func (m *Manager) SetPending(ctx context.Context, userID int64, q domain.Question) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode pending question: %w", err)
	}
	return m.store.Set(ctx, userID, domain.SessionPending, string(raw))
}

// ClearPending drops the pending quiz question
func (m *Manager) ClearPending(ctx context.Context, userID int64) error {
	return m.store.Delete(ctx, userID, domain.SessionPending)
}
