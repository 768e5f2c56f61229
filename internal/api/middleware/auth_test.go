package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

type authorizerFunc func(ctx context.Context, token string) (*domain.Claims, error)

func (f authorizerFunc) Authorize(ctx context.Context, token string) (*domain.Claims, error) {
	return f(ctx, token)
}

func acceptOnly(valid string) Authorizer {
	return authorizerFunc(func(_ context.Context, token string) (*domain.Claims, error) {
		if token != valid {
			return nil, domain.ErrInvalidToken
		}
		return &domain.Claims{AccountID: 1, Username: "chila", App: "vanelux", TokenID: "jti"}, nil
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(acceptOnly("good"))(func(c echo.Context) error {
		called = true
		claims := ClaimsFrom(c)
		if claims == nil || claims.Username != "chila" || claims.AccountID != 1 {
			t.Fatalf("claims not set: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(acceptOnly("good"))(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"no token":       "Bearer ",
		"invalid token":  "Bearer not-a-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth(acceptOnly("good"))(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestAuthMiddleware_StoreFailurePropagates(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	c := e.NewContext(req, httptest.NewRecorder())

	authz := authorizerFunc(func(context.Context, string) (*domain.Claims, error) {
		return nil, domain.ErrStoreUnavailable
	})
	handler := Auth(authz)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
