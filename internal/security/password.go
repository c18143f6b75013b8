package security

import (
	"fmt"

	"registration-service/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit. Longer plaintexts are truncated
// before hashing; Verify applies the same truncation so both sides agree.
const maxPasswordBytes = 72

// DefaultBcryptCost keeps verification around the 100ms mark on commodity
// hardware.
const DefaultBcryptCost = 12

// PasswordHasher wraps bcrypt with a fixed work factor. The per-call salt
// is embedded in the output string, so hashing the same input twice yields
// different hashes.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	out, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches hash. A malformed hash string
// counts as a mismatch, not an error.
func (h *PasswordHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
