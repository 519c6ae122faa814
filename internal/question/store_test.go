package question

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	questions  map[int64]Question
	categories map[int64]Category
	nextID     int64

	insertErr     error
	deleteErr     error
	categoriesErr error
}

func newMemStore() *memStore {
	return &memStore{
		questions:  map[int64]Question{},
		categories: map[int64]Category{},
		nextID:     1,
	}
}

func (m *memStore) addCategory(id int64, typ string) {
	m.categories[id] = Category{ID: id, Type: typ}
}

func (m *memStore) add(text string, category int64) int64 {
	id, _ := m.InsertQuestion(context.Background(), NewQuestion{
		Question:   text,
		Answer:     "answer",
		Category:   category,
		Difficulty: 1,
	})
	return id
}

func (m *memStore) sorted(keep func(Question) bool) []Question {
	out := make([]Question, 0, len(m.questions))
	for _, q := range m.questions {
		if keep == nil || keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) InsertQuestion(_ context.Context, q NewQuestion) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	id := m.nextID
	m.nextID++
	m.questions[id] = Question{ID: id, Question: q.Question, Answer: q.Answer, Category: q.Category, Difficulty: q.Difficulty}
	return id, nil
}

func (m *memStore) DeleteQuestion(_ context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.questions[id]; !ok {
		return ErrQuestionNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *memStore) GetQuestion(_ context.Context, id int64) (*Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, ErrQuestionNotFound
	}
	return &q, nil
}

func (m *memStore) GetCategory(_ context.Context, id int64) (*Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &c, nil
}

func (m *memStore) ListQuestions(context.Context) ([]Question, error) {
	return m.sorted(nil), nil
}

func (m *memStore) ListCategories(context.Context) ([]Category, error) {
	if m.categoriesErr != nil {
		return nil, m.categoriesErr
	}
	out := make([]Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) SearchQuestions(_ context.Context, term string) ([]Question, error) {
	needle := strings.ToLower(term)
	return m.sorted(func(q Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	}), nil
}

func (m *memStore) ListQuestionsByCategory(_ context.Context, categoryID int64) ([]Question, error) {
	return m.sorted(func(q Question) bool { return q.Category == categoryID }), nil
}

func (m *memStore) ListCandidateIDs(_ context.Context, categoryID int64, exclude []int64) ([]int64, error) {
	skip := map[int64]bool{}
	for _, id := range exclude {
		skip[id] = true
	}
	ids := make([]int64, 0)
	for _, q := range m.sorted(nil) {
		if skip[q.ID] || (categoryID != 0 && q.Category != categoryID) {
			continue
		}
		ids = append(ids, q.ID)
	}
	return ids, nil
}

func (m *memStore) CountQuestions(context.Context) (int, error) {
	return len(m.questions), nil
}

var errStoreDown = errors.New("store down")
