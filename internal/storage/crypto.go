package storage

import (
	"golang.org/x/crypto/bcrypt"
)

// HashKey creates a bcrypt hash of an organizer token for storage.
// Capability tokens are NOT hashed - they are looked up by exact value -
// but organizer credentials are long-lived and warrant it.
func HashKey(key string) (string, error) {
	// bcrypt cost 12
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyKey checks if a key matches a bcrypt hash.
func VerifyKey(key, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
