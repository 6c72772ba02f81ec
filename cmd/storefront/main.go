// Command storefront boots the client stack headless: it validates any
// persisted session, reloads the cart, and logs state changes until
// interrupted. Useful for smoke-testing a backend without a UI attached.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/packfinderz-storefront/internal/apiclient"
	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/guard"
	"github.com/angelmondragon/packfinderz-storefront/internal/session"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
	"github.com/angelmondragon/packfinderz-storefront/pkg/storage"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewStoreMetrics(prometheus.DefaultRegisterer)

	blob, closeBlob, err := newBlob(ctx, cfg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap storage", err)
		os.Exit(1)
	}

	client, err := apiclient.New(cfg.API, logg, m)
	if err != nil {
		logg.Error(ctx, "failed to create api client", err)
		os.Exit(1)
	}

	sessions, err := session.New(session.Params{
		Backend:    client,
		Blob:       blob,
		Logger:     logg,
		Metrics:    m,
		SignInPath: cfg.API.SignInPath,
		Navigate: func(path string) {
			logg.Info(logg.WithField(ctx, "path", path), "navigation requested")
		},
	})
	if err != nil {
		logg.Error(ctx, "failed to create session store", err)
		os.Exit(1)
	}
	client.SetAuth(sessions, sessions)

	carts, err := cart.New(ctx, cart.Params{
		Blob:    blob,
		Logger:  logg,
		Metrics: m,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}

	adder := cart.NewAddGuard(carts, cfg.Cart.AddDebounce)
	defer adder.Stop()

	guards := guard.New(sessions, cfg.API.SignInPath, cfg.API.ErrorPath)

	unsubscribeSession := sessions.Subscribe(func(snapshot types.UserPayload) {
		fields := map[string]any{"authenticated": snapshot.IsAuthenticated}
		if snapshot.IsAuthenticated {
			fields["user_id"] = snapshot.ID
			fields["role"] = snapshot.Role.String()
		}
		logg.Info(logg.WithFields(ctx, fields), "session changed")
	})
	defer unsubscribeSession()

	unsubscribeCart := carts.Subscribe(func(snapshot cart.Cart) {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"total_items":  snapshot.TotalItems,
			"total_amount": snapshot.TotalAmount.String(),
		}), "cart changed")
	})
	defer unsubscribeCart()

	go sessions.Init(ctx)

	// Exercise the guard path once the gate opens, mirroring what a router
	// does on first navigation.
	go func() {
		decision, err := guards.RequireAuth(ctx)
		if err != nil {
			return
		}
		logg.Info(logg.WithFields(ctx, map[string]any{
			"allow":    decision.Allow,
			"redirect": decision.RedirectTo,
		}), "initial route decision")
	}()

	logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "storefront core running")
	<-ctx.Done()

	var closeErr error
	if closeBlob != nil {
		closeErr = multierr.Append(closeErr, closeBlob())
	}
	if closeErr != nil {
		logg.Error(context.Background(), "shutdown cleanup failed", closeErr)
		os.Exit(1)
	}
}

// newBlob selects the persistence surface from configuration. The returned
// close func is nil for backends with nothing to release.
func newBlob(ctx context.Context, cfg *config.Config) (storage.Blob, func() error, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		store, err := storage.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorageBackendMemory:
		return storage.NewMemStore(), nil, nil
	default:
		store, err := storage.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}
