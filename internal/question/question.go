package question

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnprocessable    = errors.New("unprocessable")
	ErrQuestionNotFound = errors.New("question not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrPageNotFound     = errors.New("page not found")
)

type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// NewQuestion is a fully validated question that has not been assigned an id yet.
type NewQuestion struct {
	Question   string
	Answer     string
	Category   int64
	Difficulty int
}

// Store is the persistence collaborator used by Service. Lookups of a
// missing row return ErrQuestionNotFound or ErrCategoryNotFound.
type Store interface {
	InsertQuestion(ctx context.Context, q NewQuestion) (int64, error)
	DeleteQuestion(ctx context.Context, id int64) error
	GetQuestion(ctx context.Context, id int64) (*Question, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	// ListQuestions returns every question ordered by id ascending.
	ListQuestions(ctx context.Context) ([]Question, error)
	ListCategories(ctx context.Context) ([]Category, error)
	// SearchQuestions matches term as a case-insensitive literal substring of
	// the question text, ordered by id ascending.
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error)
	// ListCandidateIDs returns ids not in exclude, limited to categoryID
	// unless it is zero.
	ListCandidateIDs(ctx context.Context, categoryID int64, exclude []int64) ([]int64, error)
	CountQuestions(ctx context.Context) (int, error)
}

func categoryMap(items []Category) map[int64]string {
	out := make(map[int64]string, len(items))
	for _, c := range items {
		out[c.ID] = c.Type
	}
	return out
}
