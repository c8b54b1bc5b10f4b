package domain

import (
	"strings"
	"unicode"
)

// Word is a catalog entry: a native (Dutch) term with translations keyed by locale
type Word struct {
	Native       string
	Translations map[string]string
	Example      string
}

// Translation returns the translation for locale, or the fallback locale's one
func (w Word) Translation(locale, fallback string) string {
	if t, ok := w.Translations[locale]; ok && t != "" {
		return t
	}
	return w.Translations[fallback]
}

// Key returns a stable, file-system-safe key derived from the native term
func (w Word) Key() string {
	return WordKey(w.Native)
}

// WordKey lowercases the term, replaces whitespace with underscores and
// drops anything that is not a letter, digit, '-' or '_'
func WordKey(term string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(term)) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune('_')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Topic is a named, ordered list of words
type Topic struct {
	Name  string
	Words []Word
}

// WordPresentation is what the user sees when a word is shown
type WordPresentation struct {
	Topic       string
	Native      string
	Translation string
	Example     string
	Key         string
}
