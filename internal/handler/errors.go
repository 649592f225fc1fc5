package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/spendwise/spendwise/internal/middleware"
	"github.com/spendwise/spendwise/internal/service"
)

// errorWriter maps service errors to HTTP responses. Conflicts are 400 for
// accounts and 409 for categories, so the status is configurable.
type errorWriter struct {
	logger         *slog.Logger
	conflictStatus int
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
	case errors.Is(err, service.ErrConflict):
		status := e.conflictStatus
		if status == 0 {
			status = http.StatusConflict
		}
		writeError(w, status, "CONFLICT", "resource already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid username or password")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	default:
		e.logger.Error("internal_error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
