package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Elking123mi/vanelux-web/internal/pkg/metrics"
	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

type BookingService struct {
	repo   ports.BookingRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewBookingService(repo ports.BookingRepository, logger zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, logger: logger, now: time.Now}
}

// Create stores a new pending booking owned by ownerID.
func (s *BookingService) Create(ctx context.Context, ownerID int64, draft domain.BookingDraft) (*domain.Booking, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	serviceType := draft.ServiceType
	if serviceType == "" {
		serviceType = domain.DefaultServiceType
	}

	now := s.now().UTC()
	booking := &domain.Booking{
		UserID:        ownerID,
		Pickup:        draft.Pickup,
		Destination:   draft.Destination,
		PickupTime:    draft.PickupTime.UTC(),
		VehicleName:   draft.VehicleName,
		Passengers:    draft.Passengers,
		Price:         draft.Price,
		DistanceMiles: draft.DistanceMiles,
		DistanceText:  draft.DistanceText,
		DurationText:  draft.DurationText,
		ServiceType:   serviceType,
		IsScheduled:   draft.IsScheduled,
		Status:        domain.BookingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidBooking) {
			metrics.StoreErrorsTotal.WithLabelValues("create_booking").Inc()
		}
		s.logger.Error().Err(err).Int64("user_id", ownerID).Msg("failed to create booking")
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(created.ServiceType).Inc()
	s.logger.Info().Int64("booking_id", created.ID).Int64("user_id", ownerID).Msg("booking created")
	return created, nil
}

// List returns one page of the owner's bookings, newest first. Page and page
// size must be positive; sizes above MaxPageSize are clamped. An unknown status
// matches nothing.
func (s *BookingService) List(ctx context.Context, in ports.ListBookingsInput) ([]domain.Booking, error) {
	limit, offset, err := Window(in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return []domain.Booking{}, nil
	}

	out, err := s.repo.List(ctx, domain.BookingFilter{
		OwnerID: in.OwnerID,
		Status:  in.Status,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("list_bookings").Inc()
		s.logger.Error().Err(err).Int64("user_id", in.OwnerID).Msg("failed to list bookings")
		return nil, err
	}
	if out == nil {
		out = []domain.Booking{}
	}
	return out, nil
}

// Window turns a 1-based page request into limit and offset. Page and size
// must be positive; sizes above MaxPageSize are clamped.
func Window(page, size int) (limit, offset int, err error) {
	if page < 1 || size < 1 {
		return 0, 0, domain.ErrInvalidPagination
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return size, (page - 1) * size, nil
}
