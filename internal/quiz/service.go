package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"trivia/internal/question"
)

// AllCategories selects questions from every category.
const AllCategories int64 = 0

type candidateStore interface {
	ListCandidateIDs(ctx context.Context, categoryID int64, exclude []int64) ([]int64, error)
	GetQuestion(ctx context.Context, id int64) (*question.Question, error)
}

type Service struct {
	store candidateStore
	intN  func(n int) int
}

type Option func(*Service)

// WithIntN replaces the random index source. fn must return a value in [0, n).
func WithIntN(fn func(n int) int) Option {
	return func(s *Service) {
		if fn != nil {
			s.intN = fn
		}
	}
}

func NewService(store candidateStore, opts ...Option) *Service {
	s := &Service{store: store, intN: rand.Intn}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextQuestion picks one question uniformly at random among those not in
// previous, limited to categoryID unless it is AllCategories. A nil question
// with a nil error means the quiz is complete.
func (s *Service) NextQuestion(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error) {
	if categoryID < AllCategories {
		return nil, fmt.Errorf("%w: quiz category id must not be negative", question.ErrInvalidInput)
	}

	ids, err := s.store.ListCandidateIDs(ctx, categoryID, dedupe(previous))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	for len(ids) > 0 {
		i := s.intN(len(ids))
		q, err := s.store.GetQuestion(ctx, ids[i])
		if err == nil {
			return q, nil
		}
		if !errors.Is(err, question.ErrQuestionNotFound) {
			return nil, fmt.Errorf("load question %d: %w", ids[i], err)
		}
		// Deleted after the candidate list was read.
		ids[i] = ids[len(ids)-1]
		ids = ids[:len(ids)-1]
	}
	return nil, nil
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
