package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Elking123mi/vanelux-web/internal/core/ports"
	"github.com/Elking123mi/vanelux-web/internal/core/service"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/security"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/store"
	"github.com/Elking123mi/vanelux-web/internal/pkg/config"
	"github.com/Elking123mi/vanelux-web/pkg/logger"
)

// runtime is the state shared by every command once flags are parsed.
type runtime struct {
	version string
	cfg     *config.Config
	log     zerolog.Logger
}

func (rt *runtime) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Backend = v
	}
	if v, _ := cmd.Flags().GetString("db-path"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	rt.cfg = cfg
	rt.log = logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Output:  cmd.ErrOrStderr(),
		Version: rt.version,
		Env:     cfg.Env,
	})
	return nil
}

// withStore opens the configured backend for the duration of fn.
func (rt *runtime) withStore(ctx context.Context, fn func(b *store.Backend) error) error {
	if err := rt.cfg.ValidateStore(); err != nil {
		return err
	}
	b, err := store.Open(ctx, rt.cfg.Store, logger.Component(rt.log, "store"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(context.WithoutCancel(ctx)); cerr != nil {
			rt.log.Warn().Err(cerr).Msg("closing store")
		}
	}()
	return fn(b)
}

// accountService builds an AuthService for account administration. It issues
// no tokens, so it needs no signing secret.
func (rt *runtime) accountService(b *store.Backend) ports.AuthService {
	return service.NewAuthService(
		b.Accounts,
		security.NewPasswords(rt.cfg.Auth.BcryptCost),
		nil,
		logger.Component(rt.log, "auth"),
		service.WithDefaultApp(rt.cfg.Auth.DefaultApp),
	)
}

func (rt *runtime) bookingService(b *store.Backend) ports.BookingService {
	return service.NewBookingService(b.Bookings, logger.Component(rt.log, "bookings"))
}

func requireFlag(cmd *cobra.Command, name string) (string, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return "", fmt.Errorf("--%s is required", name)
	}
	return v, nil
}
