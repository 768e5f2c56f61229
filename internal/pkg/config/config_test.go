package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "vanelux", cfg.Auth.DefaultApp)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "vanelux.db", cfg.Store.SQLitePath)
	assert.Equal(t, 10*time.Second, cfg.Store.SupabaseTimeout)
	assert.Empty(t, cfg.Redis.Addr)

	assert.NoError(t, cfg.ValidateStore())
	assert.Error(t, cfg.ValidateAuth(), "secret has no default")
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":       "s3cret",
		"TOKEN_TTL":        "90m",
		"STORE_BACKEND":    "supabase",
		"SUPABASE_URL":     "https://example.supabase.co",
		"SUPABASE_KEY":     "anon",
		"SUPABASE_TIMEOUT": "3s",
		"REDIS_ADDR":       "localhost:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 3*time.Second, cfg.Store.SupabaseTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.NoError(t, cfg.ValidateAuth())
	assert.NoError(t, cfg.ValidateStore())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		auth    bool
		wantErr bool
	}{
		{"non-positive ttl", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "0s"}, true, true},
		{"negative ttl", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "-1h"}, true, true},
		{"unknown backend", map[string]string{"STORE_BACKEND": "postgres"}, false, true},
		{"supabase without key", map[string]string{"STORE_BACKEND": "supabase", "SUPABASE_URL": "https://x"}, false, true},
		{"mongo defaults", map[string]string{"STORE_BACKEND": "mongo"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			require.NoError(t, err)
			if tt.auth {
				err = cfg.ValidateAuth()
			} else {
				err = cfg.ValidateStore()
			}
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadWith_BadDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"TOKEN_TTL": "tomorrow"}))
	assert.Error(t, err)
}
