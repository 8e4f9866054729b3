package organizer

import (
	"encoding/json"
	"net/http"
)

// Stable error codes for the organizer API.
const (
	errCodeUnauthorized  = "unauthorized"
	errCodeInvalidReq    = "invalid_request"
	errCodeInvalidScore  = "invalid_score"
	errCodeForbidden     = "forbidden"
	errCodeNotFound      = "not_found"
	errCodeInternalError = "internal_error"
)

// apiError is the standard error response format for the organizer API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeError writes a JSON error response with a stable error code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Error: code, Message: message}) //nolint:errcheck
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck
}
