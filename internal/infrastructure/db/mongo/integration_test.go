//go:build integration

package mongo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	store "github.com/Elking123mi/vanelux-web/internal/infrastructure/db/mongo"
)

var uri string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		panic(err)
	}
	uri = fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	client, db, err := store.Connect(ctx, store.Config{URI: uri, Database: "vanelux_test_" + fmt.Sprint(time.Now().UnixNano())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	accounts := store.NewAccountRepository(db)
	bookings := store.NewBookingRepository(db)
	require.NoError(t, accounts.EnsureIndexes(ctx))
	require.NoError(t, bookings.EnsureIndexes(ctx))

	t.Run("accounts", func(t *testing.T) {
		created, err := accounts.Upsert(ctx, domain.AccountDraft{
			Username: "chila", Email: "chilaelkin4@gmail.com", PasswordHash: "h1",
			AllowedApps: []string{"vanelux"},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, created.ID)

		updated, err := accounts.Upsert(ctx, domain.AccountDraft{
			Username: "other", Email: "chilaelkin4@gmail.com", PasswordHash: "h2",
			AllowedApps: []string{"vanelux", "conductor"},
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "chila", updated.Username)
		assert.Equal(t, "h2", updated.PasswordHash)

		_, err = accounts.Upsert(ctx, domain.AccountDraft{Username: "chila", Email: "new@example.com", PasswordHash: "h"})
		assert.ErrorIs(t, err, domain.ErrDuplicateIdentifier)

		found, err := accounts.FindByLogin(ctx, "chila")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		_, err = accounts.FindByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)

		_, err = accounts.Upsert(ctx, domain.AccountDraft{
			Username: "dispatch", Email: "dispatch@vanelux.com", PasswordHash: "h",
			AllowedApps: []string{"conexaship"}, Status: domain.AccountSuspended,
		})
		require.NoError(t, err)

		conductor, err := accounts.ListAccounts(ctx, "conductor", 0)
		require.NoError(t, err)
		require.Len(t, conductor, 1)
		assert.Equal(t, "chila", conductor[0].Username)

		all, err := accounts.ListAccounts(ctx, "", 0)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, domain.AccountSuspended, all[1].Status)

		n, err := accounts.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("bookings", func(t *testing.T) {
		base := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
		var ids []int64
		for i, status := range []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed} {
			b, err := bookings.Create(ctx, &domain.Booking{
				UserID: 1, Pickup: domain.Location{Address: "Tocumen Airport"}, Destination: domain.Location{Address: "Hotel Miramar"},
				PickupTime: base.Add(48 * time.Hour), Passengers: 2, Price: 150.5, ServiceType: "standard",
				Status: status, CreatedAt: base.Add(time.Duration(i) * time.Minute), UpdatedAt: base,
			})
			require.NoError(t, err)
			ids = append(ids, b.ID)
		}

		list, err := bookings.List(ctx, domain.BookingFilter{OwnerID: 1, Limit: 50})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, ids[1], list[0].ID)

		pending, err := bookings.List(ctx, domain.BookingFilter{OwnerID: 1, Status: domain.BookingPending, Limit: 50})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, ids[0], pending[0].ID)

		none, err := bookings.List(ctx, domain.BookingFilter{OwnerID: 2, Limit: 50})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
