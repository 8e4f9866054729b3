// Package organizer implements the authenticated organizer API: judge
// notification (token minting and delivery), the parallel review flow,
// token revocation, and the queue control surface.
package organizer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jurylink/jurylink/internal/metrics"
	"github.com/jurylink/jurylink/internal/storage"
)

// Errors for organizer authentication failures.
var (
	// ErrMissingKey indicates no access key was provided.
	ErrMissingKey = errors.New("organizer: missing access key")
	// ErrInvalidKey indicates the access key is not valid.
	ErrInvalidKey = errors.New("organizer: invalid access key")
)

// KeyStore is the slice of the store the validator consumes.
type KeyStore interface {
	ListOrganizerTokens(ctx context.Context) ([]*storage.OrganizerToken, error)
}

// Validator checks organizer access keys against their stored hashes.
type Validator struct {
	storage KeyStore
}

// NewValidator creates a key validator.
func NewValidator(s KeyStore) *Validator {
	return &Validator{storage: s}
}

// ValidateKey returns the matching organizer token record, or an error.
func (v *Validator) ValidateKey(ctx context.Context, accessKey string) (*storage.OrganizerToken, error) {
	if accessKey == "" {
		return nil, ErrMissingKey
	}

	tokens, err := v.storage.ListOrganizerTokens(ctx)
	if err != nil {
		return nil, err
	}

	// Must iterate all keys - bcrypt hashes are not comparable directly
	for _, tok := range tokens {
		if storage.VerifyKey(accessKey, tok.KeyHash) == nil {
			return tok, nil
		}
	}

	return nil, ErrInvalidKey
}

// contextKey for storing the authenticated organizer token in context
type contextKey string

const organizerContextKey contextKey = "organizerToken"

// AuthMiddleware returns chi-compatible middleware validating the
// AccessKey header against the stored organizer keys.
func AuthMiddleware(v *Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accessKey := r.Header.Get("AccessKey")

			tok, err := v.ValidateKey(r.Context(), accessKey)
			if err != nil {
				switch {
				case errors.Is(err, ErrMissingKey):
					metrics.RecordAuthFailure("missing_key")
					writeError(w, http.StatusUnauthorized, errCodeUnauthorized, "missing access key")
				case errors.Is(err, ErrInvalidKey):
					metrics.RecordAuthFailure("invalid_key")
					logger.Warn("organizer key rejected", "remote", r.RemoteAddr)
					writeError(w, http.StatusUnauthorized, errCodeUnauthorized, "invalid access key")
				default:
					logger.Error("organizer key validation failed", "error", err)
					writeError(w, http.StatusInternalServerError, errCodeInternalError, "internal error")
				}
				return
			}

			ctx := context.WithValue(r.Context(), organizerContextKey, tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOrganizer retrieves the authenticated organizer token from context.
func GetOrganizer(ctx context.Context) *storage.OrganizerToken {
	if v := ctx.Value(organizerContextKey); v != nil {
		if tok, ok := v.(*storage.OrganizerToken); ok {
			return tok
		}
	}
	return nil
}
