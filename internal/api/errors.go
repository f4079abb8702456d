package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flashgenius/flashgenius-api/internal/generation"
	"github.com/flashgenius/flashgenius-api/internal/service"
	"github.com/flashgenius/flashgenius-api/internal/service/auth"
	"github.com/flashgenius/flashgenius-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, store.ErrRefreshTokenNotFound):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrFlashcardSetNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, generation.ErrEmptyTopic),
		errors.Is(err, service.ErrTopicTooLong),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// The model responded but produced nothing usable
	case errors.Is(err, generation.ErrParseFailure),
		errors.Is(err, generation.ErrEmptyResult):
		return http.StatusBadGateway

	// The model could not be reached at all
	case errors.Is(err, generation.ErrEndpointUnavailable),
		errors.Is(err, generation.ErrDisabled),
		errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, store.ErrRefreshTokenNotFound):
		return "Invalid refresh token"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrFlashcardSetNotFound):
		return "Flashcard set not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Bad request errors
	case errors.Is(err, generation.ErrEmptyTopic):
		return "Topic cannot be empty"

	case errors.Is(err, service.ErrTopicTooLong):
		return "Topic is too long"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Generation failures
	case errors.Is(err, generation.ErrParseFailure),
		errors.Is(err, generation.ErrEmptyResult):
		return "Could not generate flashcards for this topic, please try again"

	case errors.Is(err, generation.ErrEndpointUnavailable):
		return "Flashcard generation is temporarily unavailable, please try again later"

	case errors.Is(err, generation.ErrDisabled):
		return "Flashcard generation is not enabled on this server"

	case errors.Is(err, store.ErrUnavailable):
		return "Service temporarily unavailable, please try again later"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
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
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
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
