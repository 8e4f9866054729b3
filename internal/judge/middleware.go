package judge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jurylink/jurylink/internal/metrics"
	"github.com/jurylink/jurylink/internal/storage"
)

// TokenStore is the slice of the access store the gate consumes.
type TokenStore interface {
	LookupAccessToken(ctx context.Context, tokenValue string) (*storage.AccessToken, error)
	TouchLastAccessed(ctx context.Context, tokenID int64, now time.Time) error
}

// Middleware returns chi-compatible middleware that authenticates the
// {token} path parameter (or a token query parameter) and attaches the
// verified scope to the request context.
func Middleware(store TokenStore, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenValue := extractToken(r)

			lookup := func(value string) (*storage.AccessToken, error) {
				return store.LookupAccessToken(r.Context(), value)
			}

			result := Authenticate(tokenValue, lookup, time.Now())
			switch result.Code {
			case CodeOK:
				// Fall through to the handler below.
			case CodeError:
				logger.Error("token lookup failed", "error", result.Err)
				WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
				return
			default:
				metrics.RecordAuthFailure(string(result.Code))
				logger.Debug("capability rejected", "reason", result.Code)
				WriteError(w, http.StatusUnauthorized, string(result.Code), authMessage(result.Code))
				return
			}

			// Best-effort last-accessed update, off the request's
			// critical path. A failure here must never fail the request.
			go func(tokenID int64) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := store.TouchLastAccessed(ctx, tokenID, time.Now()); err != nil {
					logger.Debug("last-accessed update failed", "token_id", tokenID, "error", err)
				}
			}(result.Scope.TokenID)

			ctx := WithScope(r.Context(), result.Scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken gets the capability from the {token} path parameter,
// falling back to a token query parameter.
func extractToken(r *http.Request) string {
	if value := chi.URLParam(r, "token"); value != "" {
		return value
	}
	return r.URL.Query().Get("token")
}

func authMessage(code Code) string {
	switch code {
	case CodeMissingToken:
		return "no judging token supplied"
	case CodeInvalidFormat:
		return "token is not a valid judging token"
	case CodeNotFound, CodeExpired:
		return "judging link is no longer valid; ask the organizer for a new one"
	default:
		return "unauthorized"
	}
}
