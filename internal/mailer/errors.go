package mailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a structured error from the mail provider API.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorKey   string `json:"error"`
	Message    string `json:"message"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.ErrorKey != "" {
		return fmt.Sprintf("mailer: %s: %s", e.ErrorKey, e.Message)
	}
	return fmt.Sprintf("mailer: %s", e.Message)
}

// Sentinel errors for common provider error cases.
var (
	ErrUnauthorized     = errors.New("mailer: unauthorized (invalid API key)")
	ErrInvalidRecipient = errors.New("mailer: recipient rejected")
)

func parseError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusUnprocessableEntity:
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			apiErr.StatusCode = statusCode
			return fmt.Errorf("%w: %s", ErrInvalidRecipient, apiErr.Message)
		}
		return ErrInvalidRecipient
	default:
		// Try to parse as structured error
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			apiErr.StatusCode = statusCode
			return &apiErr
		}
		// Fall back to generic error
		return fmt.Errorf("mailer: request failed (status %d)", statusCode)
	}
}
