package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"ailingo/internal/domain"
	"ailingo/internal/repository"
)

// WordService presents words and tracks which ones a user has seen
type WordService struct {
	catalog        Catalog
	progressRepo   repository.ProgressRepository
	fallbackLocale string
	rnd            *lockedRand
}

// NewWordService creates a new word service
func NewWordService(catalog Catalog, progressRepo repository.ProgressRepository, fallbackLocale string, rnd *rand.Rand) *WordService {
	return &WordService{
		catalog:        catalog,
		progressRepo:   progressRepo,
		fallbackLocale: fallbackLocale,
		rnd:            newLockedRand(rnd),
	}
}

// PickWord chooses a random word of topic, translated into locale (or the
// fallback locale), and records it as seen for the user. When recording
// fails the presentation is still returned together with the error.
func (s *WordService) PickWord(ctx context.Context, userID int64, topic, locale string) (domain.WordPresentation, error) {
	words, err := s.catalog.Words(topic)
	if err != nil {
		return domain.WordPresentation{}, err
	}
	if len(words) == 0 {
		return domain.WordPresentation{}, fmt.Errorf("%w: topic %q is empty", domain.ErrInsufficientData, topic)
	}

	w := words[s.rnd.IntN(len(words))]
	p := domain.WordPresentation{
		Topic:       topic,
		Native:      w.Native,
		Translation: w.Translation(locale, s.fallbackLocale),
		Example:     w.Example,
		Key:         w.Key(),
	}

	if err := s.progressRepo.RecordSeen(ctx, userID, topic, p.Key); err != nil {
		return p, fmt.Errorf("record seen: %w", err)
	}
	return p, nil
}

// CountSeen returns how many distinct words the user has seen
func (s *WordService) CountSeen(ctx context.Context, userID int64) (int, error) {
	return s.progressRepo.CountSeen(ctx, userID)
}

// Progress returns seen counts overall and for every catalog topic. The
// total counts distinct words, so a word listed under two topics adds one to
// the total but one to each topic line: the lines may sum to more than it.
func (s *WordService) Progress(ctx context.Context, userID int64) (domain.Progress, error) {
	total, err := s.progressRepo.CountSeen(ctx, userID)
	if err != nil {
		return domain.Progress{}, err
	}

	byTopic, err := s.progressRepo.SeenByTopic(ctx, userID)
	if err != nil {
		return domain.Progress{}, err
	}

	p := domain.Progress{TotalSeen: total}
	for _, topic := range s.catalog.Topics() {
		p.Topics = append(p.Topics, domain.TopicProgress{
			Topic: topic,
			Seen:  byTopic[topic],
			Total: s.catalog.Size(topic),
		})
	}
	return p, nil
}
