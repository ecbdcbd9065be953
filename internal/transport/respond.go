package transport

import (
	"errors"
	"net/http"
	"strconv"

	"buymesho/internal/middleware"
	"buymesho/internal/repository"
	"buymesho/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Middleware wraps a handler; route groups take these so the server decides
// what guards each surface.
type Middleware = func(http.Handler) http.Handler

func passthrough(next http.Handler) http.Handler { return next }

func orPassthrough(m Middleware) Middleware {
	if m == nil {
		return passthrough
	}
	return m
}

const (
	msgInvalidBody      = "Invalid request body"
	msgInvalidListingID = "Invalid listing id"
	msgListingNotFound  = "Listing not found"
	msgSellerNotFound   = "Seller profile not found"
	msgForbidden        = "Forbidden: not your listing"
	msgEmailNotVerified = "email not verified"
)

type successResponse struct {
	Success bool `json:"success"`
}

// listingID parses the {id} path parameter.
func listingID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// respondDecodeError answers a body that failed DecodeAndValidate.
func respondDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
}

// respondServiceError maps service and repository errors onto status codes.
// Anything unrecognised is logged and answered with fallback as a 500.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, verr.Message, map[string]interface{}{
			"validation_errors": []middleware.ValidationError{{Field: verr.Field, Message: verr.Message}},
		})
	case errors.Is(err, service.ErrForbidden):
		middleware.RespondWithError(w, http.StatusForbidden, msgForbidden)
	case errors.Is(err, service.ErrEmailNotVerified):
		middleware.RespondWithError(w, http.StatusForbidden, msgEmailNotVerified)
	case errors.Is(err, repository.ErrListingNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, msgListingNotFound)
	case errors.Is(err, repository.ErrSellerNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, msgSellerNotFound)
	default:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
