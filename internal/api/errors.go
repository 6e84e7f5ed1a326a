package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bambini-app/bambini-api/internal/api/shared"
	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/identity"
	"github.com/bambini-app/bambini-api/internal/service"
	"github.com/bambini-app/bambini-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrExpiredToken),
		errors.Is(err, identity.ErrWrongTokenType),
		errors.Is(err, identity.ErrNoSession),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Confirmation outstanding
	case errors.Is(err, identity.ErrEmailNotConfirmed):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrGuardianNotFound),
		errors.Is(err, store.ErrChildNotFound),
		errors.Is(err, store.ErrSchoolNotFound),
		errors.Is(err, store.ErrActivityNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, identity.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// A failed guardian link left an orphaned child; the client must
	// retry the link, not the whole add.
	case errors.Is(err, service.ErrLinkFailed):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, identity.ErrEmailNotConfirmed):
		return "Email address not confirmed"

	case errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, identity.ErrExpiredToken),
		errors.Is(err, identity.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrGuardianNotFound):
		return "Guardian not found"

	case errors.Is(err, store.ErrChildNotFound):
		return "Child not found"

	case errors.Is(err, store.ErrSchoolNotFound):
		return "School not found"

	case errors.Is(err, store.ErrActivityNotFound):
		return "Activity not found"

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, identity.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrLinkFailed):
		return "Child created but linking failed"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidID):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return "Invalid request data"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message and
// writes the response. An explicit userMessage overrides the derived
// safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from struct
// validation errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'SignUpRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
