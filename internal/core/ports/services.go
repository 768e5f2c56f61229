package ports

import (
	"context"
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// LoginInput is what a caller presents to authenticate.
type LoginInput struct {
	Identifier string
	Password   string
	App        string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	Account     domain.PublicAccount
}

// RegisterAccountInput carries a plaintext password that is hashed before storage.
type RegisterAccountInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	Roles       []string
	AllowedApps []string
	Status      domain.AccountStatus
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Authorize(ctx context.Context, token string) (*domain.Claims, error)
	Logout(ctx context.Context, claims *domain.Claims) error
	RegisterAccount(ctx context.Context, in RegisterAccountInput) (*domain.Account, error)
}

// ListBookingsInput is a paginated, owner-scoped query.
type ListBookingsInput struct {
	OwnerID  int64
	Status   domain.BookingStatus
	Page     int
	PageSize int
}

type BookingService interface {
	Create(ctx context.Context, ownerID int64, draft domain.BookingDraft) (*domain.Booking, error)
	List(ctx context.Context, in ListBookingsInput) ([]domain.Booking, error)
}
