package ports

import (
	"context"
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type TokenIssuer interface {
	Issue(claims domain.Claims) (string, domain.Claims, error)
	Validate(token string) (*domain.Claims, error)
}

// TokenRevoker tracks logged-out token ids until they would expire anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
