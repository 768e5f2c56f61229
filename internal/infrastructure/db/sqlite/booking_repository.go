package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const bookingColumns = `id, user_id, pickup_address, pickup_lat, pickup_lng,
	destination_address, destination_lat, destination_lng, pickup_time, vehicle_name,
	passengers, price, distance_miles, distance_text, duration_text, service_type,
	is_scheduled, status, created_at, updated_at`

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts b and returns a copy carrying the assigned id.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO vlx_bookings (user_id, pickup_address, pickup_lat, pickup_lng,
		     destination_address, destination_lat, destination_lng, pickup_time, vehicle_name,
		     passengers, price, distance_miles, distance_text, duration_text, service_type,
		     is_scheduled, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		b.UserID, b.Pickup.Address, nullFloat(b.Pickup.Lat), nullFloat(b.Pickup.Lng),
		b.Destination.Address, nullFloat(b.Destination.Lat), nullFloat(b.Destination.Lng),
		formatTime(b.PickupTime), nullString(b.VehicleName),
		b.Passengers, b.Price, nullFloat(b.DistanceMiles), nullString(b.DistanceText), nullString(b.DurationText),
		b.ServiceType, b.IsScheduled, string(b.Status), formatTime(b.CreatedAt), formatTime(b.UpdatedAt))

	out := *b
	if err := row.Scan(&out.ID); err != nil {
		return nil, mapBookingError("create booking", err)
	}
	return &out, nil
}

// List returns one page of the owner's bookings, newest first with id as the
// tie-breaker.
func (r *BookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	return r.list(ctx, "list bookings", true, f)
}

// ListAll is List across every owner, for operator tooling. f.OwnerID is
// ignored; status, limit and offset apply as in List.
func (r *BookingRepository) ListAll(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	return r.list(ctx, "list all bookings", false, f)
}

func (r *BookingRepository) list(ctx context.Context, op string, byOwner bool, f domain.BookingFilter) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if byOwner {
		where = append(where, `user_id = ?`)
		args = append(args, f.OwnerID)
	}
	if f.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(f.Status))
	}
	query := `SELECT ` + bookingColumns + ` FROM vlx_bookings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += orderNewest + ` LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mapError("scan booking", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return out, nil
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                            domain.Booking
		pLat, pLng, dLat, dLng, dist sql.NullFloat64
		vehicle, distText, durText   sql.NullString
		pickup, created, updated     string
		status                       string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Pickup.Address, &pLat, &pLng,
		&b.Destination.Address, &dLat, &dLng, &pickup, &vehicle,
		&b.Passengers, &b.Price, &dist, &distText, &durText, &b.ServiceType,
		&b.IsScheduled, &status, &created, &updated); err != nil {
		return nil, err
	}

	b.Pickup.Lat, b.Pickup.Lng = floatPtr(pLat), floatPtr(pLng)
	b.Destination.Lat, b.Destination.Lng = floatPtr(dLat), floatPtr(dLng)
	b.DistanceMiles = floatPtr(dist)
	b.VehicleName, b.DistanceText, b.DurationText = vehicle.String, distText.String, durText.String
	b.Status = domain.BookingStatus(status)

	var err error
	if b.PickupTime, err = parseTime(pickup); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &b, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
