// Package judge implements the capability gate: it converts an opaque
// token string from a request path into a verified (judge, hackathon)
// scope, or rejects the request before any scoring logic runs.
package judge

import (
	"time"

	"github.com/jurylink/jurylink/internal/storage"
	"github.com/jurylink/jurylink/internal/token"
)

// Code is a stable authentication error code surfaced verbatim to the
// caller. Codes are never retried automatically - the judge must obtain
// a fresh link.
type Code string

const (
	// CodeOK indicates successful authentication.
	CodeOK Code = "ok"
	// CodeMissingToken indicates no token was supplied.
	CodeMissingToken Code = "missing_token"
	// CodeInvalidFormat indicates the token is not even shaped like a capability.
	CodeInvalidFormat Code = "invalid_format"
	// CodeNotFound indicates no live record matches the token. Unknown
	// and expired-and-purged tokens are deliberately indistinguishable.
	CodeNotFound Code = "not_found"
	// CodeExpired indicates the record exists but its expiry has passed.
	CodeExpired Code = "expired"
	// CodeError indicates the store lookup itself failed.
	CodeError Code = "internal_error"
)

// Scope is the (judge, hackathon) pair a token authorizes. All reads and
// writes downstream of the gate are filtered to it.
type Scope struct {
	JudgeID     int64
	HackathonID int64
	TokenID     int64
}

// LookupFunc fetches the capability record for an exact token value.
// It returns storage.ErrNotFound when no record matches.
type LookupFunc func(tokenValue string) (*storage.AccessToken, error)

// Result is the outcome of one authentication attempt.
type Result struct {
	Code  Code
	Scope Scope // valid only when Code == CodeOK
	Err   error // set only when Code == CodeError
}

// Authenticate is the pure decision procedure behind the middleware:
// presence, then format, then lookup, then expiry. The format check runs
// before the lookup so malformed input never reaches the store. Validity
// is recomputed from now on every attempt - expiry is a wall-clock
// policy, not a running timer.
func Authenticate(tokenValue string, lookup LookupFunc, now time.Time) Result {
	if tokenValue == "" {
		return Result{Code: CodeMissingToken}
	}

	if !token.IsValidFormat(tokenValue) {
		return Result{Code: CodeInvalidFormat}
	}

	record, err := lookup(tokenValue)
	if err != nil {
		if err == storage.ErrNotFound {
			return Result{Code: CodeNotFound}
		}
		return Result{Code: CodeError, Err: err}
	}
	if record == nil {
		return Result{Code: CodeNotFound}
	}

	if token.IsExpired(record.ExpiresAt, now) {
		return Result{Code: CodeExpired}
	}

	return Result{
		Code: CodeOK,
		Scope: Scope{
			JudgeID:     record.JudgeID,
			HackathonID: record.HackathonID,
			TokenID:     record.ID,
		},
	}
}
