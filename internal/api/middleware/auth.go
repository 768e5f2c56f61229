package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const claimsKey = "claims"

// Authorizer validates a raw bearer token.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*domain.Claims, error)
}

// Auth validates the bearer token and injects its claims into the context.
func Auth(authz Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.Errorf(domain.ErrInvalidToken, "missing authorization header")
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
				return domain.Errorf(domain.ErrInvalidToken, "invalid authorization header")
			}

			claims, err := authz.Authorize(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return err
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims set by Auth, or nil.
func ClaimsFrom(c echo.Context) *domain.Claims {
	claims, _ := c.Get(claimsKey).(*domain.Claims)
	return claims
}
