// Package token implements capability token generation and validation.
// A capability token is an unguessable secret string that itself grants
// access to one judge's view of one hackathon; there is no separate
// identity check.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// DefaultExpiryDays is the default token lifetime when the organizer
// does not configure one.
const DefaultExpiryDays = 30

// ValueLength is the length of a generated token value in characters
// (32 random bytes, hex-encoded).
const ValueLength = 64

// Capability is a freshly minted token value and its absolute expiry.
// Persistence is the caller's responsibility.
type Capability struct {
	Value     string
	ExpiresAt time.Time
}

// Generate mints a new capability from a cryptographically secure random
// source. The value is 64 lowercase hex characters (256 bits of entropy,
// which makes collisions probabilistically impossible without any
// uniqueness coordination). Expiry is computed by calendar-day addition,
// so DST and leap behavior follow the host clock.
func Generate(expiryDays int) (Capability, error) {
	if expiryDays <= 0 {
		expiryDays = DefaultExpiryDays
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return Capability{}, err
	}

	return Capability{
		Value:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().AddDate(0, 0, expiryDays),
	}, nil
}

// IsValidFormat reports whether candidate looks like a capability token:
// at least 32 characters, hex digits only (case-insensitive). This is a
// purely syntactic check; it says nothing about existence or liveness.
// It is cheap enough to run before any storage lookup, so malformed URLs
// never cost a round trip.
func IsValidFormat(candidate string) bool {
	if len(candidate) < 32 {
		return false
	}
	for _, c := range candidate {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}

// IsExpired reports whether a token with the given expiry is dead at the
// given instant. A token is still valid at the exact expiry instant and
// becomes invalid strictly after it.
func IsExpired(expiresAt, now time.Time) bool {
	return now.After(expiresAt)
}
