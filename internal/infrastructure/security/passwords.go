package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// Passwords hashes and verifies secrets with bcrypt.
type Passwords struct {
	cost int
}

// NewPasswords returns a bcrypt hasher. A cost outside bcrypt's range falls back
// to bcrypt.DefaultCost.
func NewPasswords(cost int) *Passwords {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Passwords{cost: cost}
}

// Hash returns a salted bcrypt hash. Inputs over 72 bytes are rejected instead
// of being silently truncated.
func (p *Passwords) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a mismatch.
func (p *Passwords) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
