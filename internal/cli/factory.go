// Package cli holds the pieces shared by the ecovoyage commands: building a
// Planner from configuration and driving the three screens from a terminal.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/ecovoyage"
	"github.com/aretw0/ecovoyage/internal/config"
	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/adapters/memory"
	"github.com/aretw0/ecovoyage/pkg/adapters/redis"
	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/observability"
	"github.com/aretw0/ecovoyage/pkg/persistence/middleware"
	"github.com/aretw0/ecovoyage/pkg/ports"
)

// Runtime is a configured Planner with the resources backing it.
type Runtime struct {
	Planner *ecovoyage.Planner
	Metrics *observability.Metrics
	Logger  *slog.Logger
	Store   *redis.Store // nil when sessions live in memory
	Trips   ports.TripStore

	closers []func() error
}

// Close releases the backing resources.
func (r *Runtime) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewLogger builds the application logger from cfg.
func NewLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, format), nil
}

// NewRuntime wires a Planner according to cfg.
// A Redis address switches sessions to the Redis store and enables
// distributed locking; the connection is checked before returning.
// An encryption key seals contact details in whichever store is used.
func NewRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...ecovoyage.Option) (*Runtime, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics(nil)
	rt := &Runtime{Metrics: metrics, Logger: logger}

	opts := []ecovoyage.Option{
		ecovoyage.WithCatalog(cat),
		ecovoyage.WithTaxRate(cfg.TaxRate),
		ecovoyage.WithFormatter(cfg.Currency),
		ecovoyage.WithLogger(logger),
		ecovoyage.WithLifecycleHooks(metrics.Hooks()),
		ecovoyage.WithLifecycleHooks(observability.LogHooks(logger)),
	}

	rt.Trips = memory.NewStore()
	if cfg.RedisEnabled() {
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("using redis session store", "addr", cfg.Redis.Addr, "prefix", store.Prefix())
		rt.Store = store
		rt.Trips = store
		rt.closers = append(rt.closers, store.Close)
		opts = append(opts, ecovoyage.WithLocker(redis.NewLocker(store.Client(), store.Prefix())))
	}

	if cfg.EncryptionEnabled() {
		active, fallback, err := cfg.EncryptionKeys()
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		rt.Trips = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})(rt.Trips)
		logger.Debug("contact encryption enabled", "fallback_keys", len(fallback))
	}
	opts = append(opts, ecovoyage.WithStore(rt.Trips))

	planner, err := ecovoyage.New(append(opts, extra...)...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing planner: %w", err)
	}
	rt.Planner = planner
	return rt, nil
}
