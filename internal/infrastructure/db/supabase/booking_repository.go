package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const bookingsTable = "vlx_bookings"

type BookingRepository struct {
	client *Client
}

func NewBookingRepository(client *Client) *BookingRepository {
	return &BookingRepository{client: client}
}

type bookingRow struct {
	ID                 int64     `json:"id,omitempty"`
	UserID             int64     `json:"user_id"`
	PickupAddress      string    `json:"pickup_address"`
	PickupLat          *float64  `json:"pickup_lat"`
	PickupLng          *float64  `json:"pickup_lng"`
	DestinationAddress string    `json:"destination_address"`
	DestinationLat     *float64  `json:"destination_lat"`
	DestinationLng     *float64  `json:"destination_lng"`
	PickupTime         time.Time `json:"pickup_time"`
	VehicleName        *string   `json:"vehicle_name"`
	Passengers         int       `json:"passengers"`
	Price              float64   `json:"price"`
	DistanceMiles      *float64  `json:"distance_miles"`
	DistanceText       *string   `json:"distance_text"`
	DurationText       *string   `json:"duration_text"`
	ServiceType        string    `json:"service_type"`
	IsScheduled        bool      `json:"is_scheduled"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toBookingRow(b *domain.Booking) bookingRow {
	return bookingRow{
		UserID:             b.UserID,
		PickupAddress:      b.Pickup.Address,
		PickupLat:          b.Pickup.Lat,
		PickupLng:          b.Pickup.Lng,
		DestinationAddress: b.Destination.Address,
		DestinationLat:     b.Destination.Lat,
		DestinationLng:     b.Destination.Lng,
		PickupTime:         b.PickupTime.UTC(),
		VehicleName:        optional(b.VehicleName),
		Passengers:         b.Passengers,
		Price:              b.Price,
		DistanceMiles:      b.DistanceMiles,
		DistanceText:       optional(b.DistanceText),
		DurationText:       optional(b.DurationText),
		ServiceType:        b.ServiceType,
		IsScheduled:        b.IsScheduled,
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt.UTC(),
		UpdatedAt:          b.UpdatedAt.UTC(),
	}
}

func (r bookingRow) toDomain() domain.Booking {
	return domain.Booking{
		ID:            r.ID,
		UserID:        r.UserID,
		Pickup:        domain.Location{Address: r.PickupAddress, Lat: r.PickupLat, Lng: r.PickupLng},
		Destination:   domain.Location{Address: r.DestinationAddress, Lat: r.DestinationLat, Lng: r.DestinationLng},
		PickupTime:    r.PickupTime.UTC(),
		VehicleName:   deref(r.VehicleName),
		Passengers:    r.Passengers,
		Price:         r.Price,
		DistanceMiles: r.DistanceMiles,
		DistanceText:  deref(r.DistanceText),
		DurationText:  deref(r.DurationText),
		ServiceType:   r.ServiceType,
		IsScheduled:   r.IsScheduled,
		Status:        domain.BookingStatus(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	var rows []bookingRow
	if _, err := r.client.do(ctx, http.MethodPost, bookingsTable, nil, toBookingRow(b), &rows); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("create booking: no row returned: %w", domain.ErrStoreUnavailable)
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (r *BookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+strconv.FormatInt(f.OwnerID, 10))
	if f.Status != "" {
		q.Set("status", "eq."+string(f.Status))
	}
	q.Set("order", "created_at.desc,id.desc")
	q.Set("limit", strconv.Itoa(f.Limit))
	q.Set("offset", strconv.Itoa(f.Offset))

	var rows []bookingRow
	if _, err := r.client.do(ctx, http.MethodGet, bookingsTable, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
