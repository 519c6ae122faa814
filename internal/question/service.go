package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	store    Store
	validate *validator.Validate
}

type QuestionPage struct {
	Questions       []Question
	Total           int
	Categories      map[int64]string
	CurrentCategory string
}

// CreateQuestionInput carries optional fields so that a missing value can be
// told apart from a zero one.
type CreateQuestionInput struct {
	Question   *string `validate:"required"`
	Answer     *string `validate:"required"`
	Category   *int64  `validate:"required,gt=0"`
	Difficulty *int    `validate:"required,gt=0"`
}

func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

func validatePage(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be a positive integer", ErrInvalidInput)
	}
	return nil
}

func (s *Service) ListQuestions(ctx context.Context, page int) (*QuestionPage, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}

	items, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	selected := Paginate(items, page, PageSize)

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	// An empty store and an out of range page are both reported as not found.
	if len(selected) == 0 {
		return nil, ErrPageNotFound
	}

	return &QuestionPage{
		Questions:  selected,
		Total:      len(items),
		Categories: categoryMap(categories),
	}, nil
}

func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (*QuestionPage, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrInvalidInput)
	}

	matches, err := s.store.SearchQuestions(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	total, err := s.store.CountQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	return &QuestionPage{
		Questions: Paginate(matches, page, PageSize),
		Total:     total,
	}, nil
}

func (s *Service) ListQuestionsByCategory(ctx context.Context, categoryID int64, page int) (*QuestionPage, error) {
	if err := validatePage(page); err != nil {
		return nil, err
	}
	if categoryID <= 0 {
		return nil, ErrCategoryNotFound
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	items, err := s.store.ListQuestionsByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions by category: %w", err)
	}
	total, err := s.store.CountQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	return &QuestionPage{
		Questions:       Paginate(items, page, PageSize),
		Total:           total,
		CurrentCategory: category.Type,
	}, nil
}

func (s *Service) ListCategories(ctx context.Context) (map[int64]string, error) {
	items, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %w", ErrUnprocessable, err)
	}
	return categoryMap(items), nil
}

func (s *Service) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	if id <= 0 {
		return nil, ErrQuestionNotFound
	}
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (s *Service) CreateQuestion(ctx context.Context, in CreateQuestionInput) (int64, error) {
	in.Question = trimmed(in.Question)
	in.Answer = trimmed(in.Answer)
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnprocessable, err)
	}

	id, err := s.store.InsertQuestion(ctx, NewQuestion{
		Question:   *in.Question,
		Answer:     *in.Answer,
		Category:   *in.Category,
		Difficulty: *in.Difficulty,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: insert question: %w", ErrUnprocessable, err)
	}
	return id, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id int64) (int64, error) {
	if _, err := s.GetQuestion(ctx, id); err != nil {
		return 0, err
	}

	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, ErrQuestionNotFound) {
			return 0, ErrQuestionNotFound
		}
		return 0, fmt.Errorf("%w: delete question: %w", ErrUnprocessable, err)
	}
	return id, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
