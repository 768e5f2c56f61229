// Package store opens the account and booking repositories of the configured
// backend behind the ports interfaces.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Elking123mi/vanelux-web/internal/core/ports"
	mongostore "github.com/Elking123mi/vanelux-web/internal/infrastructure/db/mongo"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/db/sqlite"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/db/supabase"
	"github.com/Elking123mi/vanelux-web/internal/pkg/config"
)

// Backend bundles the repositories of one storage backend.
type Backend struct {
	Name     string
	Accounts ports.AccountRepository
	Bookings ports.BookingRepository
	// Directory lists accounts of every status for the CLI.
	Directory ports.AccountDirectory
	// SQL is the embedded database handle; nil for remote backends.
	SQL *sql.DB

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the backend named by cfg.Backend and makes sure its schema
// or indexes are in place.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (*Backend, error) {
	var (
		b   *Backend
		err error
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		b, err = openSQLite(ctx, cfg)
	case config.BackendSupabase:
		b, err = openSupabase(cfg)
	case config.BackendMongo:
		b, err = openMongo(ctx, cfg)
	default:
		err = fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("backend", b.Name).Msg("store opened")
	return b, nil
}

func openSQLite(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLitePath, BusyTimeoutMS: cfg.SQLiteBusyTimeoutMS})
	if err != nil {
		return nil, err
	}
	accounts := sqlite.NewAccountRepository(db)
	return &Backend{
		Name:      config.BackendSQLite,
		Accounts:  accounts,
		Bookings:  sqlite.NewBookingRepository(db),
		Directory: accounts,
		SQL:       db,
		ping:      sqlite.NewInspector(db).Ping,
		close:     func(context.Context) error { return db.Close() },
	}, nil
}

func openSupabase(cfg config.StoreConfig) (*Backend, error) {
	client, err := supabase.NewClient(supabase.Config{
		URL:     cfg.SupabaseURL,
		Key:     cfg.SupabaseKey,
		Timeout: cfg.SupabaseTimeout,
	})
	if err != nil {
		return nil, err
	}
	accounts := supabase.NewAccountRepository(client)
	return &Backend{
		Name:      config.BackendSupabase,
		Accounts:  accounts,
		Bookings:  supabase.NewBookingRepository(client),
		Directory: accounts,
		ping:      client.Ping,
		close:     func(context.Context) error { return nil },
	}, nil
}

func openMongo(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	if err != nil {
		return nil, err
	}

	accounts := mongostore.NewAccountRepository(db)
	bookings := mongostore.NewBookingRepository(db)
	if err := errors.Join(accounts.EnsureIndexes(ctx), bookings.EnsureIndexes(ctx)); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}

	return &Backend{
		Name:      config.BackendMongo,
		Accounts:  accounts,
		Bookings:  bookings,
		Directory: accounts,
		ping:      func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:     client.Disconnect,
	}, nil
}

// Ping reports whether the backend is reachable.
func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

// Close releases the backend's connections.
func (b *Backend) Close(ctx context.Context) error {
	return b.close(ctx)
}
