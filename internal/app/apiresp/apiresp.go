package apiresp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const requestIDHeader = "X-Request-Id"

// Fields is a flat JSON object; every response carries a top level "success" key.
type Fields map[string]any

type ErrorPayload struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func WriteOK(w http.ResponseWriter, r *http.Request, status int, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	fields["success"] = true
	write(w, r, status, fields)
}

// WriteError writes the error body for status. An empty msg falls back to the
// standard message for that status.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if msg == "" {
		msg = MessageFromStatus(status)
	}
	write(w, r, status, ErrorPayload{Success: false, Error: status, Message: msg})
}

func write(w http.ResponseWriter, r *http.Request, status int, body any) {
	if id := middleware.GetReqID(r.Context()); id != "" {
		w.Header().Set(requestIDHeader, id)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func MessageFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusMethodNotAllowed:
		return "method not allowed"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusInternalServerError:
		return "internal server error"
	default:
		return http.StatusText(status)
	}
}
