package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// RequireApp only lets through tokens issued for one of the given applications.
// It must run after Auth.
func RequireApp(apps ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(apps))
	for _, a := range apps {
		allowed[a] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return domain.Errorf(domain.ErrInvalidToken, "missing authentication claims")
			}
			if _, ok := allowed[claims.App]; !ok {
				return domain.ErrApplicationNotAuthorized
			}
			return next(c)
		}
	}
}
