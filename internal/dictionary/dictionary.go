// Package dictionary looks up English definitions on dictionaryapi.dev
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// DefaultBaseURL is the free dictionary API for English entries
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

var (
	// ErrNotFound means the dictionary has no entry for the word
	ErrNotFound = errors.New("dictionary: word not found")
	// ErrNotAWord means the text is not a single alphabetic word
	ErrNotAWord = errors.New("dictionary: not a single word")
)

// Definition is the first sense of the first entry
type Definition struct {
	Word         string
	PartOfSpeech string
	Text         string
	Example      string
}

// Client talks to the dictionary API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsWord reports whether text is a single word made of letters only
func IsWord(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

type entry struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
			Example    string `json:"example"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Define returns the definition of word
func (c *Client) Define(ctx context.Context, word string) (*Definition, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if !IsWord(word) {
		return nil, ErrNotAWord
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, fmt.Errorf("dictionary: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary: request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, word)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("dictionary: status %d", resp.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("dictionary: decode: %w", err)
	}

	for _, e := range entries {
		for _, m := range e.Meanings {
			for _, d := range m.Definitions {
				if d.Definition == "" {
					continue
				}
				w := e.Word
				if w == "" {
					w = word
				}
				return &Definition{
					Word:         w,
					PartOfSpeech: m.PartOfSpeech,
					Text:         d.Definition,
					Example:      d.Example,
				}, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, word)
}
