package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const bookingsCollection = "vlx_bookings"

type BookingRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{db: db, col: db.Collection(bookingsCollection)}
}

type bookingDoc struct {
	ID            int64           `bson:"_id"`
	UserID        int64           `bson:"user_id"`
	Pickup        domain.Location `bson:"pickup"`
	Destination   domain.Location `bson:"destination"`
	PickupTime    time.Time       `bson:"pickup_time"`
	VehicleName   string          `bson:"vehicle_name,omitempty"`
	Passengers    int             `bson:"passengers"`
	Price         float64         `bson:"price"`
	DistanceMiles *float64        `bson:"distance_miles,omitempty"`
	DistanceText  string          `bson:"distance_text,omitempty"`
	DurationText  string          `bson:"duration_text,omitempty"`
	ServiceType   string          `bson:"service_type"`
	IsScheduled   bool            `bson:"is_scheduled"`
	Status        string          `bson:"status"`
	CreatedAt     time.Time       `bson:"created_at"`
	UpdatedAt     time.Time       `bson:"updated_at"`
}

func (d bookingDoc) toDomain() domain.Booking {
	return domain.Booking{
		ID:            d.ID,
		UserID:        d.UserID,
		Pickup:        d.Pickup,
		Destination:   d.Destination,
		PickupTime:    d.PickupTime.UTC(),
		VehicleName:   d.VehicleName,
		Passengers:    d.Passengers,
		Price:         d.Price,
		DistanceMiles: d.DistanceMiles,
		DistanceText:  d.DistanceText,
		DurationText:  d.DurationText,
		ServiceType:   d.ServiceType,
		IsScheduled:   d.IsScheduled,
		Status:        domain.BookingStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// Create inserts a new booking document under a freshly allocated id.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextID(ctx, r.db, bookingsCollection)
	if err != nil {
		return nil, err
	}
	doc := bookingDoc{
		ID:            id,
		UserID:        b.UserID,
		Pickup:        b.Pickup,
		Destination:   b.Destination,
		PickupTime:    b.PickupTime.UTC(),
		VehicleName:   b.VehicleName,
		Passengers:    b.Passengers,
		Price:         b.Price,
		DistanceMiles: b.DistanceMiles,
		DistanceText:  b.DistanceText,
		DurationText:  b.DurationText,
		ServiceType:   b.ServiceType,
		IsScheduled:   b.IsScheduled,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt.UTC(),
		UpdatedAt:     b.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapError("create booking", err)
	}
	out := doc.toDomain()
	return &out, nil
}

// List returns one page of the owner's bookings, newest first.
func (r *BookingRepository) List(ctx context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": f.OwnerID}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Offset)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError("list bookings", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError("decode bookings", err)
	}
	out := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the owner listing index.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	return err
}
