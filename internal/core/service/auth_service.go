package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Elking123mi/vanelux-web/internal/pkg/metrics"
	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
)

// AuthService implements login, token authorization, logout and account
// registration.
type AuthService struct {
	accounts   ports.AccountRepository
	hasher     ports.PasswordHasher
	tokens     ports.TokenIssuer
	revoker    ports.TokenRevoker
	defaultApp string
	logger     zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithRevoker enables logout. Without one, Logout is a no-op and no token is
// ever considered revoked.
func WithRevoker(r ports.TokenRevoker) AuthOption {
	return func(s *AuthService) { s.revoker = r }
}

// WithDefaultApp sets the application assumed when a login names none.
func WithDefaultApp(app string) AuthOption {
	return func(s *AuthService) {
		if app != "" {
			s.defaultApp = app
		}
	}
}

func NewAuthService(accounts ports.AccountRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, logger zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		accounts:   accounts,
		hasher:     hasher,
		tokens:     tokens,
		defaultApp: domain.DefaultApp,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies credentials and issues an access token scoped to in.App.
// Unknown identifiers and wrong passwords produce the same error, and both
// pay for one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	app := in.App
	if app == "" {
		app = s.defaultApp
	}
	if in.Identifier == "" || in.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	acc, err := s.accounts.FindByLogin(ctx, in.Identifier)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		s.hasher.Verify(in.Password, s.dummy())
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.logger.Info().Str("app", app).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		metrics.StoreErrorsTotal.WithLabelValues("find_account").Inc()
		s.logger.Error().Err(err).Msg("login lookup failed")
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, acc.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.logger.Info().Str("app", app).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	if !acc.CanUse(app) {
		metrics.LoginsTotal.WithLabelValues("app_not_authorized").Inc()
		s.logger.Info().Int64("account_id", acc.ID).Str("app", app).Msg("login refused for application")
		return nil, domain.ErrApplicationNotAuthorized
	}

	token, claims, err := s.tokens.Issue(domain.Claims{
		AccountID: acc.ID,
		Email:     acc.Email,
		Username:  acc.Username,
		App:       app,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Int64("account_id", acc.ID).Str("app", app).Msg("login succeeded")

	return &ports.LoginResult{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt,
		Account:     acc.Public(),
	}, nil
}

// Authorize validates a bearer token and checks it has not been revoked. A
// revocation list that cannot be reached fails closed.
func (s *AuthService) Authorize(ctx context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if s.revoker == nil || claims.TokenID == "" {
		return claims, nil
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Error().Err(err).Msg("revocation check failed")
		return nil, fmt.Errorf("authorize: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if revoked {
		metrics.TokenRejectionsTotal.WithLabelValues("revoked").Inc()
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the token described by claims until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *domain.Claims) error {
	if s.revoker == nil || claims == nil || claims.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w: %w", domain.ErrStoreUnavailable, err)
	}
	s.logger.Info().Int64("account_id", claims.AccountID).Msg("token revoked")
	return nil
}

// RegisterAccount hashes the password and upserts the account by email.
func (s *AuthService) RegisterAccount(ctx context.Context, in ports.RegisterAccountInput) (*domain.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" {
		return nil, domain.Errorf(domain.ErrInvalidAccount, "username and email are required")
	}
	if in.Password == "" {
		return nil, domain.Errorf(domain.ErrInvalidAccount, "password is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.Errorf(domain.ErrInvalidAccount, "unknown status %q", in.Status)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	acc, err := s.accounts.Upsert(ctx, domain.AccountDraft{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Roles:        in.Roles,
		AllowedApps:  in.AllowedApps,
		Status:       in.Status,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateIdentifier) {
			metrics.StoreErrorsTotal.WithLabelValues("upsert_account").Inc()
		}
		return nil, err
	}

	s.logger.Info().Int64("account_id", acc.ID).Str("username", acc.Username).Msg("account upserted")
	return acc, nil
}

// dummy returns a real hash to compare against when the account does not exist.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("vanelux-timing-equaliser")
		if err != nil {
			s.logger.Warn().Err(err).Msg("could not prepare dummy hash")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
