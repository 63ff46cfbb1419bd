package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/garnizeh/billing/internal/billing"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

// validationError carries the schema violations of a request.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func errorFor(err error) (errorResponse, bool) {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		return errorResponse{Status: "BAD_REQUEST", StatusCode: http.StatusBadRequest, Message: verr.msg}, true
	case errors.Is(err, billing.ErrEntityNotFound):
		return errorResponse{Status: "NOT_FOUND", StatusCode: http.StatusNotFound, Message: err.Error()}, true
	case errors.Is(err, billing.ErrForbidden):
		return errorResponse{Status: billing.ErrForbidden.Error(), StatusCode: http.StatusUnauthorized}, true
	case errors.Is(err, billing.ErrInsufficientBalance),
		errors.Is(err, billing.ErrJobAlreadyPaid),
		errors.Is(err, billing.ErrMaxDeposit),
		errors.Is(err, billing.ErrNoDataWithinTimeframe),
		errors.Is(err, billing.ErrInvalidAmount):
		return errorResponse{Status: "BAD_REQUEST", StatusCode: http.StatusBadRequest, Message: err.Error()}, true
	}
	return errorResponse{}, false
}

// writeError maps err to its response envelope. Unknown errors are logged
// and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp, known := errorFor(err)
	if !known {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestIDFromContext(r.Context())),
			slog.Any("err", err),
		)
		resp = errorResponse{Status: "INTERNAL_SERVER_ERROR", StatusCode: http.StatusInternalServerError}
	}
	writeJSON(w, resp.StatusCode, resp)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Status: "NOT_FOUND", StatusCode: http.StatusNotFound})
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Status: "METHOD_NOT_ALLOWED", StatusCode: http.StatusMethodNotAllowed})
}
