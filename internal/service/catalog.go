package service

import "ailingo/internal/domain"

// Catalog is the read-only word source used by services
type Catalog interface {
	Topics() []string
	Has(topic string) bool
	Words(topic string) ([]domain.Word, error)
	AllWords() []domain.Word
	Size(topic string) int
}
