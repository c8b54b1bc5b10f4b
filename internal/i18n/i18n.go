// Package i18n looks up user-facing texts by locale and key.
package i18n

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales.json
var defaultLocales []byte

// LabelKey is the key holding a locale's own display name
const LabelKey = "language_label"

// Locale is a selectable interface language
type Locale struct {
	Code  string
	Label string
}

// Bundle holds texts for every locale. It is read-only after creation.
type Bundle struct {
	messages map[string]map[string]string
	fallback string
	locales  []Locale
	codes    []string
	matcher  language.Matcher
}

// Load reads a bundle from path. An empty path uses the built-in texts.
func Load(path, fallback string) (*Bundle, error) {
	if path == "" {
		return Parse(defaultLocales, fallback)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", path, err)
	}
	return Parse(data, fallback)
}

// Default returns the built-in bundle
func Default(fallback string) *Bundle {
	b, err := Parse(defaultLocales, fallback)
	if err != nil {
		panic(err)
	}
	return b
}

// Parse builds a bundle from JSON of the form {"en": {"key": "text"}}.
// The fallback locale must be present.
func Parse(data []byte, fallback string) (*Bundle, error) {
	var messages map[string]map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("i18n: parse: %w", err)
	}
	if _, ok := messages[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %q is missing", fallback)
	}

	b := &Bundle{messages: messages, fallback: fallback}

	for code := range messages {
		b.codes = append(b.codes, code)
	}
	sort.Strings(b.codes)

	// The matcher's first tag is its default, so the fallback goes first
	tags := []language.Tag{language.Make(fallback)}
	ordered := []string{fallback}
	for _, code := range b.codes {
		if code != fallback {
			tags = append(tags, language.Make(code))
			ordered = append(ordered, code)
		}
	}
	b.codes = ordered
	b.matcher = language.NewMatcher(tags)

	for _, code := range b.codes {
		label := messages[code][LabelKey]
		if label == "" {
			label = code
		}
		b.locales = append(b.locales, Locale{Code: code, Label: label})
	}

	return b, nil
}

// Fallback returns the fallback locale code
func (b *Bundle) Fallback() string {
	return b.fallback
}

// Has reports whether the locale is supported
func (b *Bundle) Has(code string) bool {
	_, ok := b.messages[code]
	return ok
}

// Locales returns supported locales, fallback first
func (b *Bundle) Locales() []Locale {
	out := make([]Locale, len(b.locales))
	copy(out, b.locales)
	return out
}

// Match maps a client language code such as "ru-RU" onto a supported
// locale, or the fallback when nothing is close enough
func (b *Bundle) Match(code string) string {
	if code == "" {
		return b.fallback
	}
	tag, err := language.Parse(code)
	if err != nil {
		return b.fallback
	}
	_, index, confidence := b.matcher.Match(tag)
	if confidence == language.No {
		return b.fallback
	}
	return b.codes[index]
}

// T returns the text for key in locale, then in the fallback locale, then
// the key itself. args are name/value pairs filling {name} placeholders.
func (b *Bundle) T(locale, key string, args ...any) string {
	text, ok := b.messages[locale][key]
	if !ok {
		text, ok = b.messages[b.fallback][key]
	}
	if !ok {
		text = key
	}

	if len(args) == 0 {
		return text
	}

	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+fmt.Sprint(args[i])+"}", fmt.Sprint(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
