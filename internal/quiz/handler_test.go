package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"trivia/internal/question"
)

type mockQuizService struct {
	nextQuestionFn func(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error)
}

func (m *mockQuizService) NextQuestion(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error) {
	if m.nextQuestionFn == nil {
		return nil, errors.New("not implemented")
	}
	return m.nextQuestionFn(ctx, categoryID, previous)
}

func play(t *testing.T, h *Handler, payload string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.Play(w, httptest.NewRequest(http.MethodPost, "/quizzes", bytes.NewReader([]byte(payload))))
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return w, body
}

func TestPlayReturnsQuestion(t *testing.T) {
	h := &Handler{svc: &mockQuizService{
		nextQuestionFn: func(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error) {
			if categoryID != 1 {
				t.Fatalf("expected category 1, got %d", categoryID)
			}
			if len(previous) != 2 || previous[0] != 20 || previous[1] != 21 {
				t.Fatalf("unexpected previous: %v", previous)
			}
			return &question.Question{ID: 22, Question: "Q", Answer: "A", Category: 1, Difficulty: 4}, nil
		},
	}}

	w, body := play(t, h, `{"previous_questions":[20,"21"],"quiz_category":{"type":"Science","id":"1"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true")
	}
	q := body["question"].(map[string]any)
	if q["id"].(float64) != 22 {
		t.Fatalf("unexpected question: %+v", q)
	}
}

func TestPlayCompleteQuizReturnsNull(t *testing.T) {
	h := &Handler{svc: &mockQuizService{
		nextQuestionFn: func(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error) {
			if categoryID != AllCategories {
				t.Fatalf("expected all categories, got %d", categoryID)
			}
			return nil, nil
		},
	}}

	w, body := play(t, h, `{"quiz_category":{"type":"click","id":0}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	v, ok := body["question"]
	if !ok || v != nil {
		t.Fatalf("expected question null, got %v", v)
	}
}

func TestPlayBadRequests(t *testing.T) {
	h := &Handler{svc: &mockQuizService{
		nextQuestionFn: func(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error) {
			return nil, question.ErrInvalidInput
		},
	}}

	for _, payload := range []string{
		`{"previous_questions":[]}`,
		`{"quiz_category":{"type":"Science"}}`,
		`{"quiz_category":{"id":"abc"}}`,
		`{"quiz_category":{"id":-1}}`,
	} {
		w, body := play(t, h, payload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, w.Code)
		}
		if body["success"] != false || body["message"] != "bad request" {
			t.Fatalf("payload %s: unexpected body %+v", payload, body)
		}
	}
}

func TestPlayStoreFailureIs500(t *testing.T) {
	h := &Handler{svc: &mockQuizService{
		nextQuestionFn: func(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error) {
			return nil, errors.New("db down")
		},
	}}

	w, body := play(t, h, `{"quiz_category":{"id":1},"previous_questions":[]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if body["error"].(float64) != 500 {
		t.Fatalf("unexpected body: %+v", body)
	}
}
