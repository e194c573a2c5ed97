package web

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/protoquiz/internal/bank"
	"github.com/abhisek/protoquiz/internal/quiz"
)

// Error codes returned in API error bodies.
const (
	CodeInvalidOptionIndex = "invalid_option_index"
	CodeIllegalTransition  = "illegal_transition"
	CodeUnknownBank        = "unknown_bank"
	CodeBadRequest         = "bad_request"
	CodeRateLimited        = "rate_limited"
	CodeInternal           = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps an engine or catalogue error to an HTTP status and code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, quiz.ErrInvalidOptionIndex):
		return http.StatusUnprocessableEntity, CodeInvalidOptionIndex
	case errors.Is(err, quiz.ErrIllegalTransition):
		return http.StatusConflict, CodeIllegalTransition
	case errors.Is(err, bank.ErrUnknownBank):
		return http.StatusNotFound, CodeUnknownBank
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, CodeBadRequest
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

var errBadRequest = errors.New("bad request")

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	respondJSON(w, status, ErrorResponse{Error: ErrorDetail{
		Code:      code,
		Message:   msg,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}})
}

func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	respondError(w, r, status, code, msg)
}
