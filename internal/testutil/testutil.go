package testutil

import (
	"time"

	"ailingo/internal/catalog"
	"ailingo/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(userID int64, username string) *domain.User {
	return &domain.User{
		UserID:   userID,
		Username: username,
		JoinDate: time.Now(),
	}
}

// NewTestWord creates a test word with an English and a Russian translation
func NewTestWord(native, en, ru string) domain.Word {
	tr := map[string]string{"en": en}
	if ru != "" {
		tr["ru"] = ru
	}
	return domain.Word{Native: native, Translations: tr}
}

// NewTestDay creates a test day
func NewTestDay(date time.Time, count int) domain.Day {
	return domain.Day{
		Date:  date,
		Count: count,
	}
}

// NewTestCatalog builds a small catalog:
// animals = hond/dog, kat/cat, vis/fish; food = brood/bread, kaas/cheese
func NewTestCatalog() *catalog.Catalog {
	c, err := catalog.New(
		domain.Topic{Name: "animals", Words: []domain.Word{
			NewTestWord("hond", "dog", "собака"),
			NewTestWord("kat", "cat", "кошка"),
			NewTestWord("vis", "fish", "рыба"),
		}},
		domain.Topic{Name: "food", Words: []domain.Word{
			NewTestWord("brood", "bread", "хлеб"),
			NewTestWord("kaas", "cheese", ""),
		}},
	)
	if err != nil {
		panic(err)
	}
	return c
}
