package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// DefaultServiceType is applied when a booking request leaves service_type empty.
const DefaultServiceType = "standard"

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Location is a pickup or drop-off point. Coordinates are optional.
type Location struct {
	Address string   `json:"address" bson:"address"`
	Lat     *float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// Booking is a passenger's request for a chauffeured ride.
type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	Pickup        Location      `json:"pickup"`
	Destination   Location      `json:"destination"`
	PickupTime    time.Time     `json:"pickup_time"`
	VehicleName   string        `json:"vehicle_name,omitempty"`
	Passengers    int           `json:"passengers"`
	Price         float64       `json:"price"`
	DistanceMiles *float64      `json:"distance_miles,omitempty"`
	DistanceText  string        `json:"distance_text,omitempty"`
	DurationText  string        `json:"duration_text,omitempty"`
	ServiceType   string        `json:"service_type"`
	IsScheduled   bool          `json:"is_scheduled"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BookingDraft carries the caller-supplied fields of a new booking. Distance and
// duration are stored as given and never recomputed.
type BookingDraft struct {
	Pickup        Location
	Destination   Location
	PickupTime    time.Time
	VehicleName   string
	Passengers    int
	Price         float64
	DistanceMiles *float64
	DistanceText  string
	DurationText  string
	ServiceType   string
	IsScheduled   bool
}

// Validate checks the numeric constraints of a draft.
func (d BookingDraft) Validate() error {
	if d.Passengers < 1 {
		return Errorf(ErrInvalidBooking, "passengers must be at least 1")
	}
	if d.Price < 0 {
		return Errorf(ErrInvalidBooking, "price must not be negative")
	}
	if d.Pickup.Address == "" || d.Destination.Address == "" {
		return Errorf(ErrInvalidBooking, "pickup and destination addresses are required")
	}
	if d.PickupTime.IsZero() {
		return Errorf(ErrInvalidBooking, "pickup_time is required")
	}
	return nil
}

// BookingFilter scopes a listing to one owner and optionally one status.
type BookingFilter struct {
	OwnerID int64
	Status  BookingStatus
	Limit   int
	Offset  int
}
