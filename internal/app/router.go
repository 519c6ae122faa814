package app

import (
	"database/sql"
	"net/http"
	"time"

	"trivia/internal/app/apiresp"
	"trivia/internal/app/observability"
	"trivia/internal/question"
	"trivia/internal/quiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP API on top of store. db is only used for pool
// metrics and may be nil.
func NewRouter(cfg Config, db *sql.DB, store question.Store) http.Handler {
	collector := observability.NewCollector(db).
		WithQuestionCounter(store).
		WithRequestLog(cfg.AppEnv != "development")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.AppEnv == "development" {
		r.Use(middleware.Logger)
	}
	r.Use(collector.Middleware)
	r.Use(CORSMiddleware(cfg.CORSAllowOrigin))
	r.Use(WriteRateLimitMiddleware(NewIPRateLimiter(cfg.WriteRateLimitPerMin, time.Minute)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteError(w, r, http.StatusNotFound, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apiresp.WriteError(w, r, http.StatusMethodNotAllowed, "")
	})

	questionHandler := question.NewHandler(question.NewService(store))
	quizHandler := quiz.NewHandler(quiz.NewService(store))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/metrics", collector.MetricsHandler)

	r.Get("/categories", questionHandler.ListCategories)
	r.Get("/categories/{id}/questions", questionHandler.ListByCategory)

	r.Route("/questions", func(qr chi.Router) {
		qr.Get("/", questionHandler.ListQuestions)
		qr.Post("/", questionHandler.CreateOrSearch)
		qr.Get("/{id}", questionHandler.GetQuestion)
		qr.Delete("/{id}", questionHandler.DeleteQuestion)
	})

	r.Post("/quizzes", quizHandler.Play)

	return r
}
