package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"dotation-service/internal/core"
)

type errorDetail struct {
	Message   string `json:"message"`
	LineID    int    `json:"line_id,omitempty"`
	ArticleID int    `json:"article_id,omitempty"`
	Pending   int    `json:"pending,omitempty"`
}

type errorResponse struct {
	Success   bool          `json:"success"`
	Error     string        `json:"error"`
	Code      string        `json:"code"`
	Errors    []errorDetail `json:"errors,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeDomainError maps the domain error taxonomy to HTTP statuses: validation
// failures are 400 with the offending line/article attached, state conflicts
// are 409, unknown references 404. Anything else is a 500 with the detail kept
// in the server log only.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error: verr.Message,
			Code:  "VALIDATION_FAILED",
			Errors: []errorDetail{{
				Message:   verr.Message,
				LineID:    verr.LineID,
				ArticleID: verr.ArticleID,
				Pending:   verr.Pending,
			}},
			RequestID: requestIDFromContext(r.Context()),
		})
		return
	}

	var cerr *core.ConflictError
	if errors.As(err, &cerr) {
		writeError(w, r, cerr.Message, "CONFLICT", http.StatusConflict)
		return
	}

	var nferr *core.NotFoundError
	if errors.As(err, &nferr) {
		writeError(w, r, nferr.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}

	log.Printf("request %s failed: %v", requestIDFromContext(r.Context()), err)
	writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
