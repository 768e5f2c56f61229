package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// tokenClaims is the signed payload. Custom field names match what the web and
// mobile clients already decode.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	App      string `json:"app,omitempty"`
}

// Tokens issues and validates HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token manager. Both the secret and a positive TTL are required.
func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs claims, assigning a fresh jti and the iat/exp pair. The returned
// Claims carry the values actually signed.
func (t *Tokens) Issue(c domain.Claims) (string, domain.Claims, error) {
	now := t.now().UTC().Truncate(time.Second)
	c.TokenID = uuid.NewString()
	c.IssuedAt = now
	c.ExpiresAt = now.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        c.TokenID,
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
		UserID:   c.AccountID,
		Email:    c.Email,
		Username: c.Username,
		App:      c.App,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, c, nil
}

// Validate checks algorithm, signature and expiry. Any failure is
// domain.ErrInvalidToken.
func (t *Tokens) Validate(raw string) (*domain.Claims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.Claims{
		AccountID: claims.UserID,
		Email:     claims.Email,
		Username:  claims.Username,
		App:       claims.App,
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.UTC()
	}
	return out, nil
}
