package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Elking123mi/vanelux-web/internal/api/middleware"
	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing or
// zero account id means the route was mounted without the middleware.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.AccountID == 0 {
		return nil, domain.Errorf(domain.ErrInvalidToken, "missing authentication claims")
	}
	return claims, nil
}
