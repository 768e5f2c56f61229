package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const accountsCollection = "accounts"

type AccountRepository struct {
	db  *mongo.Database
	col *mongo.Collection
	now func() time.Time
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{db: db, col: db.Collection(accountsCollection), now: time.Now}
}

type accountDoc struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	FullName     string    `bson:"full_name"`
	Roles        []string  `bson:"roles"`
	AllowedApps  []string  `bson:"allowed_apps"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d accountDoc) toDomain() *domain.Account {
	acc := &domain.Account{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Roles:        d.Roles,
		AllowedApps:  d.AllowedApps,
		Status:       domain.AccountStatus(d.Status),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	return acc.Clone()
}

func (r *AccountRepository) FindByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"$or":    bson.A{bson.M{"username": identifier}, bson.M{"email": identifier}},
		"status": string(domain.AccountActive),
	}
	var doc accountDoc
	err := r.col.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, mapError("find account", err)
	}
	return doc.toDomain(), nil
}

// Upsert updates the mutable fields of the account with d.Email, or inserts a
// new document under a freshly allocated id. The unique indexes decide races.
func (r *AccountRepository) Upsert(ctx context.Context, d domain.AccountDraft) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now().UTC().Truncate(time.Millisecond)
	var doc accountDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"email": d.Email},
		bson.M{"$set": bson.M{
			"password_hash": d.PasswordHash,
			"full_name":     d.FullName,
			"roles":         nonNil(d.Roles),
			"allowed_apps":  nonNil(d.AllowedApps),
			"updated_at":    now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, mapError("update account", err)
	}

	id, err := nextID(ctx, r.db, accountsCollection)
	if err != nil {
		return nil, err
	}
	doc = accountDoc{
		ID:           id,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FullName:     d.FullName,
		Roles:        nonNil(d.Roles),
		AllowedApps:  nonNil(d.AllowedApps),
		Status:       string(d.InsertStatus()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, mapError("insert account", err)
	}
	return doc.toDomain(), nil
}

// ListAccounts returns accounts of every status ordered by id. allowed_apps is
// an array, so an equality filter matches membership.
func (r *AccountRepository) ListAccounts(ctx context.Context, app string, limit int) ([]domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if app != "" {
		filter["allowed_apps"] = app
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapError("list accounts", err)
	}
	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError("decode accounts", err)
	}
	out := make([]domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapError("count accounts", err)
	}
	return n, nil
}

// EnsureIndexes creates the unique login indexes.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
