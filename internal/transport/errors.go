package transport

import (
	"errors"
	"net/http"
	"strconv"

	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// errInvalidID is reported for a non-numeric or non-positive {id}
var errInvalidID = errors.New("invalid id")

// parseID reads the {id} URL parameter
func parseID(r *http.Request) (int64, error) {
	return parsePositive(chi.URLParam(r, "id"))
}

func parsePositive(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// respondDecodeError answers a body that failed to decode or failed validation
func respondDecodeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("Request validation failed", zap.Error(err))

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

// respondServiceError maps a catalog error to its HTTP status. Storage failures
// are reported generically; the service has already logged their cause.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		validation *domain.ValidationError
		missing    *domain.MissingDependencyError
	)

	switch {
	case errors.As(err, &validation):
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(validation))
	case errors.As(err, &missing):
		middleware.RespondWithErrorDetails(w, http.StatusNotFound, err.Error(), map[string]interface{}{
			"field": missing.Field,
			"id":    missing.ID,
		})
	case errors.Is(err, domain.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConstraintViolation):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		if !errors.Is(err, domain.ErrStorage) {
			logger.Error("Unexpected catalog error", zap.Error(err))
		}
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
