package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"trivia/internal/app/apireq"
	"trivia/internal/app/apiresp"
	"trivia/internal/question"

	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	svc quizService
}

type quizService interface {
	NextQuestion(ctx context.Context, categoryID int64, previous []int64) (*question.Question, error)
}

type quizCategory struct {
	ID   *apireq.FlexInt `json:"id"`
	Type string          `json:"type"`
}

type playRequest struct {
	QuizCategory      *quizCategory    `json:"quiz_category"`
	PreviousQuestions []apireq.FlexInt `json:"previous_questions"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "")
		return
	}
	if req.QuizCategory == nil || req.QuizCategory.ID == nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "")
		return
	}

	previous := make([]int64, 0, len(req.PreviousQuestions))
	for _, id := range req.PreviousQuestions {
		previous = append(previous, int64(id))
	}

	q, err := h.svc.NextQuestion(r.Context(), int64(*req.QuizCategory.ID), previous)
	if err != nil {
		if errors.Is(err, question.ErrInvalidInput) {
			apiresp.WriteError(w, r, http.StatusBadRequest, "")
			return
		}
		log.Printf("quiz next question failed request_id=%s err=%v", middleware.GetReqID(r.Context()), err)
		apiresp.WriteError(w, r, http.StatusInternalServerError, "")
		return
	}

	// A nil question is encoded as null and tells the client the quiz is over.
	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{"question": q})
}
