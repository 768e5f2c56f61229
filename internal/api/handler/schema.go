package handler

import (
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	App      string `json:"app"`
}

type loginResponse struct {
	AccessToken string               `json:"access_token"`
	TokenType   string               `json:"token_type"`
	ExpiresAt   time.Time            `json:"expires_at"`
	User        domain.PublicAccount `json:"user"`
}

func toLoginResponse(res *ports.LoginResult) loginResponse {
	return loginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        res.Account,
	}
}

// --- Bookings ---

type createBookingRequest struct {
	PickupAddress      string   `json:"pickup_address"      validate:"required"`
	PickupLat          *float64 `json:"pickup_lat"          validate:"omitempty,latitude"`
	PickupLng          *float64 `json:"pickup_lng"          validate:"omitempty,longitude"`
	DestinationAddress string   `json:"destination_address" validate:"required"`
	DestinationLat     *float64 `json:"destination_lat"     validate:"omitempty,latitude"`
	DestinationLng     *float64 `json:"destination_lng"     validate:"omitempty,longitude"`
	PickupTime         string   `json:"pickup_time"         validate:"required,iso8601" example:"2025-11-28T14:00:00Z"`
	VehicleName        string   `json:"vehicle_name"`
	Passengers         *int     `json:"passengers"          validate:"omitempty,min=1"`
	Price              *float64 `json:"price"               validate:"required,gte=0"`
	DistanceMiles      *float64 `json:"distance_miles"      validate:"omitempty,gte=0"`
	DistanceText       string   `json:"distance_text"`
	DurationText       string   `json:"duration_text"`
	ServiceType        string   `json:"service_type"`
	IsScheduled        *bool    `json:"is_scheduled"`
}

// toDraft applies the wire defaults. pickup_time must already have passed the
// iso8601 validation.
func (r createBookingRequest) toDraft() (domain.BookingDraft, error) {
	pickupTime, err := domain.ParseTimestamp(r.PickupTime)
	if err != nil {
		return domain.BookingDraft{}, domain.Errorf(domain.ErrInvalidBooking, "pickup_time must be an ISO-8601 date-time")
	}
	passengers := 1
	if r.Passengers != nil {
		passengers = *r.Passengers
	}
	scheduled := true
	if r.IsScheduled != nil {
		scheduled = *r.IsScheduled
	}
	var price float64
	if r.Price != nil {
		price = *r.Price
	}
	return domain.BookingDraft{
		Pickup:        domain.Location{Address: r.PickupAddress, Lat: r.PickupLat, Lng: r.PickupLng},
		Destination:   domain.Location{Address: r.DestinationAddress, Lat: r.DestinationLat, Lng: r.DestinationLng},
		PickupTime:    pickupTime,
		VehicleName:   r.VehicleName,
		Passengers:    passengers,
		Price:         price,
		DistanceMiles: r.DistanceMiles,
		DistanceText:  r.DistanceText,
		DurationText:  r.DurationText,
		ServiceType:   r.ServiceType,
		IsScheduled:   scheduled,
	}, nil
}

// bookingResponse is the flat wire form of a booking row.
type bookingResponse struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	PickupAddress      string    `json:"pickup_address"`
	PickupLat          *float64  `json:"pickup_lat"`
	PickupLng          *float64  `json:"pickup_lng"`
	DestinationAddress string    `json:"destination_address"`
	DestinationLat     *float64  `json:"destination_lat"`
	DestinationLng     *float64  `json:"destination_lng"`
	PickupTime         time.Time `json:"pickup_time"`
	VehicleName        string    `json:"vehicle_name"`
	Passengers         int       `json:"passengers"`
	Price              float64   `json:"price"`
	DistanceMiles      *float64  `json:"distance_miles"`
	DistanceText       string    `json:"distance_text"`
	DurationText       string    `json:"duration_text"`
	ServiceType        string    `json:"service_type"`
	IsScheduled        bool      `json:"is_scheduled"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type bookingEnvelope struct {
	Booking bookingResponse `json:"booking"`
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		PickupAddress:      b.Pickup.Address,
		PickupLat:          b.Pickup.Lat,
		PickupLng:          b.Pickup.Lng,
		DestinationAddress: b.Destination.Address,
		DestinationLat:     b.Destination.Lat,
		DestinationLng:     b.Destination.Lng,
		PickupTime:         b.PickupTime.UTC(),
		VehicleName:        b.VehicleName,
		Passengers:         b.Passengers,
		Price:              b.Price,
		DistanceMiles:      b.DistanceMiles,
		DistanceText:       b.DistanceText,
		DurationText:       b.DurationText,
		ServiceType:        b.ServiceType,
		IsScheduled:        b.IsScheduled,
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt.UTC(),
		UpdatedAt:          b.UpdatedAt.UTC(),
	}
}

func toBookingList(in []domain.Booking) bookingListResponse {
	out := make([]bookingResponse, 0, len(in))
	for _, b := range in {
		out = append(out, toBookingResponse(b))
	}
	return bookingListResponse{Bookings: out}
}

// --- Health ---

type livenessResponse struct {
	Status string `json:"status"`
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}
