package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Elking123mi/vanelux-web/internal/api"
	"github.com/Elking123mi/vanelux-web/internal/api/handler"
	"github.com/Elking123mi/vanelux-web/internal/core/service"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/db/redis"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/security"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/store"
	"github.com/Elking123mi/vanelux-web/pkg/logger"
)

func newServeCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				return rt.serve(cmd.Context(), addr)
			}
			return rt.serve(cmd.Context(), ":"+rt.cfg.Port)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default: :$PORT)")
	return cmd
}

func (rt *runtime) serve(ctx context.Context, addr string) error {
	if err := rt.cfg.ValidateAuth(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rt.withStore(ctx, func(b *store.Backend) error {
		e, cleanup, err := rt.buildServer(ctx, b)
		if err != nil {
			return err
		}
		defer cleanup()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			rt.log.Info().Str("addr", addr).Msg("http server listening")
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			rt.log.Info().Msg("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), api.ShutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		})
		return g.Wait()
	})
}

// buildServer wires services and the router over an open backend. The
// returned cleanup closes the optional revocation list.
func (rt *runtime) buildServer(ctx context.Context, b *store.Backend) (*echo.Echo, func(), error) {
	tokens, err := security.NewTokens(rt.cfg.Auth.JWTSecret, rt.cfg.Auth.TokenTTL)
	if err != nil {
		return nil, nil, err
	}

	checks := map[string]handler.Check{
		b.Name: b.Ping,
	}
	opts := []service.AuthOption{service.WithDefaultApp(rt.cfg.Auth.DefaultApp)}
	cleanup := func() {}

	if rt.cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     rt.cfg.Redis.Addr,
			Password: rt.cfg.Redis.Password,
			DB:       rt.cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		revocations := redis.NewRevocations(client)
		opts = append(opts, service.WithRevoker(revocations))
		checks["redis"] = revocations.Ping
		cleanup = func() { _ = client.Close() }
		redisLog := logger.Component(rt.log, "redis")
		redisLog.Info().Str("addr", rt.cfg.Redis.Addr).Msg("token revocation enabled")
	} else {
		rt.log.Warn().Msg("REDIS_ADDR not set; logout will not revoke tokens")
	}

	auth := service.NewAuthService(
		b.Accounts,
		security.NewPasswords(rt.cfg.Auth.BcryptCost),
		tokens,
		logger.Component(rt.log, "auth"),
		opts...,
	)

	e := api.NewRouter(api.Deps{
		Auth:       auth,
		Bookings:   rt.bookingService(b),
		Checks:     checks,
		BookingApp: rt.cfg.Auth.DefaultApp,
		Logger:     logger.Component(rt.log, "http"),
	})
	return e, cleanup, nil
}
