package question

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"trivia/internal/app/apireq"
	"trivia/internal/app/apiresp"

	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	svc questionService
}

type questionService interface {
	ListQuestions(ctx context.Context, page int) (*QuestionPage, error)
	SearchQuestions(ctx context.Context, term string, page int) (*QuestionPage, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64, page int) (*QuestionPage, error)
	ListCategories(ctx context.Context) (map[int64]string, error)
	GetQuestion(ctx context.Context, id int64) (*Question, error)
	CreateQuestion(ctx context.Context, in CreateQuestionInput) (int64, error)
	DeleteQuestion(ctx context.Context, id int64) (int64, error)
}

// createOrSearchRequest is the body of POST /questions. A non-empty
// searchTerm turns the request into a search.
type createOrSearchRequest struct {
	Question   *string         `json:"question"`
	Answer     *string         `json:"answer"`
	Category   *apireq.FlexInt `json:"category"`
	Difficulty *apireq.FlexInt `json:"difficulty"`
	SearchTerm *string         `json:"searchTerm"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{"categories": categories})
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := apireq.Page(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "")
		return
	}

	res, err := h.svc.ListQuestions(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{
		"questions":        res.Questions,
		"total_questions":  res.Total,
		"categories":       res.Categories,
		"current_category": nil,
	})
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := apireq.IDParam(r, "id")
	if err != nil {
		apiresp.WriteError(w, r, http.StatusNotFound, "")
		return
	}

	q, err := h.svc.GetQuestion(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{"question": q})
}

func (h *Handler) CreateOrSearch(w http.ResponseWriter, r *http.Request) {
	var req createOrSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "")
		return
	}

	if req.SearchTerm != nil && *req.SearchTerm != "" {
		h.search(w, r, *req.SearchTerm)
		return
	}

	id, err := h.svc.CreateQuestion(r.Context(), CreateQuestionInput{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   req.Category.Int64Ptr(),
		Difficulty: req.Difficulty.IntPtr(),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{"id": id})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, term string) {
	page, err := apireq.Page(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "")
		return
	}

	res, err := h.svc.SearchQuestions(r.Context(), term, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{
		"questions":        res.Questions,
		"total_questions":  res.Total,
		"current_category": nil,
	})
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := apireq.IDParam(r, "id")
	if err != nil {
		apiresp.WriteError(w, r, http.StatusNotFound, "")
		return
	}

	deleted, err := h.svc.DeleteQuestion(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{"id": deleted})
}

func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := apireq.IDParam(r, "id")
	if err != nil {
		apiresp.WriteError(w, r, http.StatusNotFound, "")
		return
	}
	page, err := apireq.Page(r)
	if err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "")
		return
	}

	res, err := h.svc.ListQuestionsByCategory(r.Context(), categoryID, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	apiresp.WriteOK(w, r, http.StatusOK, apiresp.Fields{
		"questions":        res.Questions,
		"total_questions":  res.Total,
		"current_category": res.CurrentCategory,
	})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		apiresp.WriteError(w, r, http.StatusBadRequest, "")
	case errors.Is(err, ErrQuestionNotFound),
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrPageNotFound):
		apiresp.WriteError(w, r, http.StatusNotFound, "")
	case errors.Is(err, ErrUnprocessable):
		log.Printf("question request unprocessable request_id=%s err=%v", middleware.GetReqID(r.Context()), err)
		apiresp.WriteError(w, r, http.StatusUnprocessableEntity, "")
	default:
		log.Printf("question request failed request_id=%s err=%v", middleware.GetReqID(r.Context()), err)
		apiresp.WriteError(w, r, http.StatusInternalServerError, "")
	}
}
