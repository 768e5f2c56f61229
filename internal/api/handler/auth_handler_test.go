package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
)

type stubAuthService struct {
	loginFn     func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	authorizeFn func(ctx context.Context, token string) (*domain.Claims, error)
	logoutFn    func(ctx context.Context, claims *domain.Claims) error
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Authorize(ctx context.Context, token string) (*domain.Claims, error) {
	return s.authorizeFn(ctx, token)
}

func (s *stubAuthService) Logout(ctx context.Context, claims *domain.Claims) error {
	return s.logoutFn(ctx, claims)
}

func (s *stubAuthService) RegisterAccount(context.Context, ports.RegisterAccountInput) (*domain.Account, error) {
	return nil, errors.New("not implemented")
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	expires := time.Date(2025, 11, 29, 14, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.Identifier != "chilaelkin4@gmail.com" || in.Password != "chila123" || in.App != "vanelux" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.LoginResult{
				AccessToken: "token123",
				ExpiresAt:   expires,
				Account: domain.PublicAccount{
					ID: 1, Username: "chila", Email: "chilaelkin4@gmail.com",
					Roles: []string{"passenger"}, AllowedApps: []string{"vanelux"},
				},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"chilaelkin4@gmail.com","password":"chila123","app":"vanelux"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected token fields: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "chila" || user["email"] != "chilaelkin4@gmail.com" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must never be returned")
	}
}

func TestAuthHandler_Login_PassesEmptyApp(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.App != "" {
				t.Fatalf("handler must leave app defaulting to the service, got %q", in.App)
			}
			return &ports.LoginResult{AccessToken: "t"}, nil
		},
	}

	req := jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"chila","password":"chila123"}`)
	rec := httptest.NewRecorder()
	if err := NewAuthHandler(stub).Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestAuthHandler_Login_ServiceErrorsPropagate(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrApplicationNotAuthorized, domain.ErrStoreUnavailable} {
		e := newTestEcho()
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
				return nil, want
			},
		}

		req := jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"chila","password":"bad"}`)
		err := NewAuthHandler(stub).Login(e.NewContext(req, httptest.NewRecorder()))
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for _, body := range []string{"{", `{"username":"chila"}`, `{"password":"x"}`} {
		req := jsonRequest(http.MethodPost, "/api/v1/auth/login", body)
		err := handler.Login(e.NewContext(req, httptest.NewRecorder()))
		if code := httpStatus(t, err); code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, code)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	var revoked *domain.Claims
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, claims *domain.Claims) error {
			revoked = claims
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("claims", &domain.Claims{AccountID: 1, TokenID: "jti-1"})

	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if revoked == nil || revoked.TokenID != "jti-1" {
		t.Fatalf("expected claims to be passed to the service, got %+v", revoked)
	}
}

func TestAuthHandler_Logout_WithoutClaims(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, claims *domain.Claims) error {
			t.Fatalf("should not be called")
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	err := NewAuthHandler(stub).Logout(e.NewContext(req, httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
