package ports

import (
	"context"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	// List returns the owner's bookings newest first. An offset past the end
	// yields an empty slice.
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
}
