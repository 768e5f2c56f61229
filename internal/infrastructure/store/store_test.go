package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/pkg/config"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, config.StoreConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "vanelux.db"),
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close(ctx) })

	assert.Equal(t, config.BackendSQLite, b.Name)
	require.NotNil(t, b.SQL)
	require.NoError(t, b.Ping(ctx))

	acc, err := b.Accounts.Upsert(ctx, domain.AccountDraft{
		Username: "chila", Email: "chilaelkin4@gmail.com", PasswordHash: "$2a$10$x",
		AllowedApps: []string{"vanelux"},
	})
	require.NoError(t, err)

	_, err = b.Bookings.List(ctx, domain.BookingFilter{OwnerID: acc.ID, Limit: 10})
	require.NoError(t, err)

	require.NotNil(t, b.Directory)
	n, err := b.Directory.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOpen_Supabase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	b, err := Open(ctx, config.StoreConfig{
		Backend:     config.BackendSupabase,
		SupabaseURL: srv.URL,
		SupabaseKey: "anon",
	}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, config.BackendSupabase, b.Name)
	assert.Nil(t, b.SQL)
	assert.NoError(t, b.Ping(ctx))
	assert.NoError(t, b.Close(ctx))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Backend: "postgres"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
