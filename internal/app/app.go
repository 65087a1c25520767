// Package app wires configuration, store, repositories, executors, the
// category initializer and the services into one value the CLI drives.
package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/locations/internal/executor"
	"github.com/mesh-intelligence/locations/internal/initializer"
	"github.com/mesh-intelligence/locations/internal/memory"
	"github.com/mesh-intelligence/locations/internal/metadata"
	"github.com/mesh-intelligence/locations/internal/metrics"
	"github.com/mesh-intelligence/locations/internal/repository"
	"github.com/mesh-intelligence/locations/internal/service"
	"github.com/mesh-intelligence/locations/internal/sqlite"
	"github.com/mesh-intelligence/locations/pkg/types"
)

// shutdownTimeout bounds how long Close waits for pool workers.
const shutdownTimeout = 5 * time.Second

// App holds the wired components. Close releases them.
type App struct {
	Config     types.Config
	Store      types.TableStore
	Registry   *metadata.Registry
	Locations  *service.Catalog[types.Location, *types.Location]
	Categories *service.Catalog[types.Category, *types.Category]
	Loader     *initializer.CategoryInitializer

	logger    zerolog.Logger
	pool      *executor.Pool
	scheduler *executor.Scheduler
}

type options struct {
	client   *http.Client
	registry prometheus.Registerer
}

// Option customises New.
type Option func(*options)

// WithHTTPClient sets the client the loader fetches with.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithMetrics registers the loader metrics with r.
func WithMetrics(r prometheus.Registerer) Option {
	return func(o *options) { o.registry = r }
}

// OpenStore creates an empty store of the given backend.
func OpenStore(backend string) (types.TableStore, error) {
	switch backend {
	case types.BackendMemory:
		return memory.NewStore(), nil
	case types.BackendSQLite:
		return sqlite.Open()
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// New validates cfg and builds the application around a fresh store.
func New(cfg types.Config, logger zerolog.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	store, err := OpenStore(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Backend, err)
	}

	a := &App{
		Config:   cfg,
		Store:    store,
		Registry: metadata.NewRegistry(),
		logger:   logger,
	}

	locations, err := repository.New[types.Location](store, a.Registry)
	if err != nil {
		store.Close()
		return nil, err
	}
	categories, err := repository.New[types.Category](store, a.Registry)
	if err != nil {
		store.Close()
		return nil, err
	}

	loaderOpts := []initializer.Option{initializer.WithLogger(logger)}
	if o.client != nil {
		loaderOpts = append(loaderOpts, initializer.WithHTTPClient(o.client))
	}
	if o.registry != nil {
		m, err := metrics.NewInitializerMetrics(o.registry)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		loaderOpts = append(loaderOpts, initializer.WithMetrics(m))
	}

	a.pool = executor.NewPool(cfg.Executors.FixedPoolSize)
	a.scheduler = executor.NewScheduler(cfg.Executors.ScheduledPoolSize)
	a.Loader = initializer.New(cfg.BaseURL, categories, a.pool, a.scheduler, cfg.Executors.Duration, loaderOpts...)
	a.Locations = service.NewLocations(locations, logger)
	a.Categories = service.NewCategories(categories, logger)

	logger.Debug().Str("backend", cfg.Backend).Strs("kinds", a.Registry.Kinds()).Msg("application ready")
	return a, nil
}

// Close stops the executors and discards the store.
func (a *App) Close() error {
	a.scheduler.Stop()
	return errors.Join(
		a.pool.StopWithTimeout(shutdownTimeout),
		a.Store.Close(),
	)
}
