package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ailingo/internal/domain"

	"gopkg.in/yaml.v3"
)

// Field names inside a topic file entry. Every other field is a translation
// keyed by locale code.
const (
	NativeField  = "nl"
	ExampleField = "example"
)

// Load reads every *.json, *.yaml and *.yml file in dir as one topic named
// after the file. Each file holds a list of entries such as
//
//	{"nl": "hond", "en": "dog", "ru": "собака", "example": "De hond blaft."}
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: read dir: %w", err)
	}

	var topics []domain.Topic
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", entry.Name(), err)
		}

		var raw []map[string]string
		if ext == ".json" {
			err = json.Unmarshal(data, &raw)
		} else {
			err = yaml.Unmarshal(data, &raw)
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", entry.Name(), err)
		}

		topics = append(topics, domain.Topic{
			Name:  strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Words: toWords(raw),
		})
	}

	if len(topics) == 0 {
		return nil, fmt.Errorf("catalog: no topic files in %s", dir)
	}

	return New(topics...)
}

func toWords(raw []map[string]string) []domain.Word {
	words := make([]domain.Word, 0, len(raw))
	for _, entry := range raw {
		w := domain.Word{
			Native:       strings.TrimSpace(entry[NativeField]),
			Example:      strings.TrimSpace(entry[ExampleField]),
			Translations: make(map[string]string, len(entry)),
		}
		for k, v := range entry {
			if k == NativeField || k == ExampleField {
				continue
			}
			w.Translations[k] = strings.TrimSpace(v)
		}
		words = append(words, w)
	}
	return words
}
