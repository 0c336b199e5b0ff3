package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"heritagecatalog/internal/domain"
)

// WriteServiceError maps a service error onto the HTTP error envelope.
// Unexpected failures are logged and reported as 500 without their cause.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		verr *domain.ValidationError
		rerr *domain.ReferenceError
	)
	switch {
	// Aggregate write failures may wrap any other sentinel and must stay 500.
	case errors.Is(err, domain.ErrAggregateWrite):
		logFailure(r, logger, err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "the event could not be saved, no changes were applied")
	case errors.As(err, &verr):
		WriteValidationError(w, verr)
	case errors.As(err, &rerr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeReference, rerr.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, domain.ErrReferentialIntegrity):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeReference, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "only the organizer or an administrator may do this")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		logFailure(r, logger, err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

func logFailure(r *http.Request, logger *slog.Logger, err error) {
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
