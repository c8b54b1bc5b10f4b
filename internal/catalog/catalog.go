// Package catalog holds the static word catalog: topic name to an ordered
// list of words. It is loaded once at startup and never written afterwards,
// so it is safe to share between goroutines without locking.
package catalog

import (
	"fmt"
	"sort"

	"ailingo/internal/domain"
)

// DefaultLocale is the translation every word must carry
const DefaultLocale = "en"

// Catalog is an immutable set of topics
type Catalog struct {
	topics map[string]domain.Topic
	names  []string
	all    []domain.Word
}

// New builds a catalog from already parsed topics
func New(topics ...domain.Topic) (*Catalog, error) {
	c := &Catalog{topics: make(map[string]domain.Topic, len(topics))}

	for _, t := range topics {
		if t.Name == "" {
			return nil, fmt.Errorf("catalog: topic without a name")
		}
		if _, dup := c.topics[t.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate topic %q", t.Name)
		}
		if len(t.Words) == 0 {
			return nil, fmt.Errorf("catalog: topic %q has no words", t.Name)
		}
		for i, w := range t.Words {
			if err := validate(w); err != nil {
				return nil, fmt.Errorf("catalog: topic %q word %d: %w", t.Name, i, err)
			}
		}

		words := make([]domain.Word, len(t.Words))
		copy(words, t.Words)
		c.topics[t.Name] = domain.Topic{Name: t.Name, Words: words}
		c.names = append(c.names, t.Name)
	}

	sort.Strings(c.names)
	for _, name := range c.names {
		c.all = append(c.all, c.topics[name].Words...)
	}

	return c, nil
}

func validate(w domain.Word) error {
	if w.Native == "" {
		return fmt.Errorf("missing native term")
	}
	if w.Translations[DefaultLocale] == "" {
		return fmt.Errorf("%q has no %q translation", w.Native, DefaultLocale)
	}
	return nil
}

// Topics returns topic names in sorted order
func (c *Catalog) Topics() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Has reports whether the topic exists
func (c *Catalog) Has(name string) bool {
	_, ok := c.topics[name]
	return ok
}

// Words returns the words of a topic. The slice must not be modified.
func (c *Catalog) Words(name string) ([]domain.Word, error) {
	t, ok := c.topics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTopic, name)
	}
	return t.Words, nil
}

// AllWords returns every word of every topic, grouped by topic in name
// order. The slice must not be modified.
func (c *Catalog) AllWords() []domain.Word {
	return c.all
}

// Size returns the number of words in a topic, 0 for unknown topics
func (c *Catalog) Size(name string) int {
	return len(c.topics[name].Words)
}
