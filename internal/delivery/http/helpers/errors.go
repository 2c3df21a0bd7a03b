package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"devevent/internal/domain"
)

// WriteServiceError maps an error returned by a service to its HTTP status
// and error code. Store outages and unexpected errors are logged.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: &APIError{
			Code:    ErrCodeValidation,
			Message: verr.Error(),
			Details: verr.Problems,
		}})
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrDuplicateKey):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "an event with this title already exists")
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, domain.ErrConnection):
		logger.ErrorContext(r.Context(), "database unavailable", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "database unavailable")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
