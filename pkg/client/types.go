package client

import "time"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	App      string `json:"app,omitempty"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}

// User is the public projection of an account.
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	AllowedApps []string `json:"allowed_apps"`
}

// BookingRequest is the body of a new booking. Nil pointers are left out so the
// server applies its defaults.
type BookingRequest struct {
	PickupAddress      string    `json:"pickup_address"`
	PickupLat          *float64  `json:"pickup_lat,omitempty"`
	PickupLng          *float64  `json:"pickup_lng,omitempty"`
	DestinationAddress string    `json:"destination_address"`
	DestinationLat     *float64  `json:"destination_lat,omitempty"`
	DestinationLng     *float64  `json:"destination_lng,omitempty"`
	PickupTime         time.Time `json:"pickup_time"`
	VehicleName        string    `json:"vehicle_name,omitempty"`
	Passengers         *int      `json:"passengers,omitempty"`
	Price              float64   `json:"price"`
	DistanceMiles      *float64  `json:"distance_miles,omitempty"`
	DistanceText       string    `json:"distance_text,omitempty"`
	DurationText       string    `json:"duration_text,omitempty"`
	ServiceType        string    `json:"service_type,omitempty"`
	IsScheduled        *bool     `json:"is_scheduled,omitempty"`
}

// Booking is a stored booking as the API returns it.
type Booking struct {
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

// ListOptions filters and pages ListBookings.
type ListOptions struct {
	Status   string
	Page     int
	PageSize int
}

// Health is the body of the health probes.
type Health struct {
	Status       string                `json:"status"`
	Dependencies map[string]Dependency `json:"dependencies,omitempty"`
}

// Dependency is one entry of the readiness report.
type Dependency struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
