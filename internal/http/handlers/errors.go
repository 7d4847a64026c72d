// Package handlers defines the HTTP-layer error codes used across all API
// endpoints. Codes are lowercase snake_case; handlers pick the most specific
// one and pass it to fail() with the matching status.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/services"
	"github.com/ozires/site24h-backend/internal/storage"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeInvalidTransition = "invalid_transition"
	ErrCodeEmptyContent      = "empty_content"
	ErrCodePayloadTooLarge   = "payload_too_large"
	ErrCodeMethodNotAllowed  = "method_not_allowed"
)

// failFromErr translates the well-known service errors into HTTP responses.
// Anything unrecognized becomes a 500 so callers never leak internals.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAiConfigNotFound),
		errors.Is(err, services.ErrPromptNotFound),
		errors.Is(err, services.ErrApiKeyNotFound),
		errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrUnknownSetting):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		fail(c, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrDuplicateSubmission),
		errors.Is(err, services.ErrPromptKeyTaken),
		errors.Is(err, services.ErrAiConfigInUse),
		errors.Is(err, services.ErrLastAdmin):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrApiKeyInvalid):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmptyContent):
		fail(c, http.StatusBadRequest, ErrCodeEmptyContent, err.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNoActiveAiConfig),
		errors.Is(err, storage.ErrNotDataURL),
		errors.Is(err, storage.ErrUnsupportedType):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
