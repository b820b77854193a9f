// Package app wires the broker components together for the ironq binary.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/RustMQ/rusted-iron/internal/api"
	"github.com/RustMQ/rusted-iron/internal/config"
	"github.com/RustMQ/rusted-iron/internal/mq"
	"github.com/RustMQ/rusted-iron/internal/pusher"
	"github.com/RustMQ/rusted-iron/internal/registry"
	"github.com/RustMQ/rusted-iron/internal/status"
	"github.com/RustMQ/rusted-iron/internal/store"
)

// App holds the components of one broker process
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	registry *registry.Registry
	engine   *mq.Engine
	tracker  *status.Tracker
}

// New connects to Redis and builds the components
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s, err := store.New(store.Config{
		URL:          cfg.Redis.URL,
		PoolSize:     cfg.Redis.PoolSize,
		MaxTxRetries: cfg.Redis.MaxTxRetries,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	return NewWithStore(cfg, s, logger), nil
}

// NewWithStore builds the components on an existing store
func NewWithStore(cfg *config.Config, s *store.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	queues := registry.New(s, logger)
	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    s,
		registry: queues,
		engine:   mq.NewEngine(s, queues, logger),
		tracker:  status.NewTracker(s, logger),
	}
}

// Router returns an HTTP router over the app's components
func (a *App) Router() *api.Router {
	return api.NewRouter(api.Services{
		Queues:   a.registry,
		Messages: a.engine,
		Statuses: a.tracker,
		Store:    a.store,
	}, a.logger)
}

// Pusher returns a push delivery engine posting over HTTP
func (a *App) Pusher() (*pusher.Pusher, error) {
	return pusher.New(a.store,
		pusher.WithGateway(pusher.NewHTTPGateway(pusher.HTTPGatewayConfig{
			Timeout:   a.cfg.Push.HTTPTimeout,
			UserAgent: a.cfg.Push.UserAgent,
		}, a.logger)),
		pusher.WithRecorder(a.tracker),
		pusher.WithEnqueuer(a.engine),
		pusher.WithLogger(a.logger),
		pusher.WithWorkers(a.cfg.Push.Workers),
	)
}

// RunServer serves the HTTP API until ctx is done. With withPusher set the
// push engine runs in the same process. The lease sweeper runs when an
// interval is configured.
func (a *App) RunServer(ctx context.Context, withPusher bool) error {
	server := api.NewServer(api.ServerConfig{
		Addr:         a.cfg.Server.Addr(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}, a.Router(), a.logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if withPusher {
		p, err := a.Pusher()
		if err != nil {
			return fmt.Errorf("failed to create pusher: %w", err)
		}
		g.Go(func() error {
			return p.Run(gctx)
		})
	}

	if a.cfg.Lease.SweepInterval > 0 {
		g.Go(func() error {
			a.engine.RunLeaseSweeper(gctx, a.cfg.Lease.SweepInterval)
			return nil
		})
	}

	a.logger.Info("Broker started",
		"addr", a.cfg.Server.Addr(),
		"with_pusher", withPusher,
		"lease_sweep_interval", a.cfg.Lease.SweepInterval,
	)

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// RunPusher runs only the push delivery engine until ctx is done
func (a *App) RunPusher(ctx context.Context) error {
	p, err := a.Pusher()
	if err != nil {
		return fmt.Errorf("failed to create pusher: %w", err)
	}
	return p.Run(ctx)
}

// Close releases the store connection
func (a *App) Close() error {
	return a.store.Close()
}
