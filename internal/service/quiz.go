package service

import (
	"fmt"
	"math/rand/v2"

	"ailingo/internal/domain"

	"github.com/google/uuid"
)

// QuizLocale is the translation language used for quiz options
const QuizLocale = "en"

// QuizService builds and grades multiple-choice questions
type QuizService struct {
	catalog Catalog
	rnd     *lockedRand
}

// NewQuizService creates a new quiz service. A nil rnd uses a randomly
// seeded source.
func NewQuizService(catalog Catalog, rnd *rand.Rand) *QuizService {
	return &QuizService{catalog: catalog, rnd: newLockedRand(rnd)}
}

// PoseQuestion picks a random word of topic and offers its translation
// among distractors taken from other words of every topic. Distractors are
// distinct by value and never equal the correct answer.
func (s *QuizService) PoseQuestion(topic string) (domain.Question, error) {
	words, err := s.catalog.Words(topic)
	if err != nil {
		return domain.Question{}, err
	}
	if len(words) == 0 {
		return domain.Question{}, fmt.Errorf("%w: topic %q is empty", domain.ErrInsufficientData, topic)
	}

	prompt := words[s.rnd.IntN(len(words))]
	correct := prompt.Translations[QuizLocale]

	pool := s.distractorPool(correct)
	need := domain.OptionCount - 1
	if len(pool) < need {
		return domain.Question{}, fmt.Errorf("%w: topic %q has %d candidate distractors, need %d",
			domain.ErrInsufficientData, topic, len(pool), need)
	}

	// Partial Fisher-Yates: the first need entries become a uniform sample
	for i := 0; i < need; i++ {
		j := i + s.rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	options := make([]string, 0, domain.OptionCount)
	options = append(options, correct)
	options = append(options, pool[:need]...)
	s.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return domain.Question{
		ID:      uuid.NewString(),
		Topic:   topic,
		Prompt:  prompt.Native,
		Correct: correct,
		Options: options,
	}, nil
}

func (s *QuizService) distractorPool(correct string) []string {
	seen := map[string]bool{correct: true}
	var pool []string
	for _, w := range s.catalog.AllWords() {
		t := w.Translations[QuizLocale]
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		pool = append(pool, t)
	}
	return pool
}

// GradeAnswer compares the submitted option with the pending question's
// correct answer. It has no side effects.
func (s *QuizService) GradeAnswer(pending domain.Question, submitted string) domain.Verdict {
	return domain.Verdict{
		Correct:       submitted == pending.Correct,
		Submitted:     submitted,
		CorrectAnswer: pending.Correct,
	}
}
