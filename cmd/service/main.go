// Package main is the entry point for the anime quote service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/anime-quote-service/internal/adapters/cache/rediscache"
	"github.com/jsamuelsen/anime-quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/anime-quote-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http"
	"github.com/jsamuelsen/anime-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/anime-quote-service/internal/adapters/storage/mongostore"
	"github.com/jsamuelsen/anime-quote-service/internal/app"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/config"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/telemetry"
	"github.com/jsamuelsen/anime-quote-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// resources are the long-lived connections released on shutdown.
type resources struct {
	persister *app.Persister
	conns     *mongostore.ConnectionCache
	cache     *rediscache.Cache
	telemetry *telemetry.Provider
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast, before any connection)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	res := &resources{}

	res.telemetry, err = telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// 5. Quote store: one lazily dialled client shared by every request
	res.conns = mongostore.NewConnectionCache(mongostore.CacheConfig{
		URI:            cfg.Store.URI,
		Database:       cfg.Store.Database,
		Collection:     cfg.Store.Collection,
		ConnectTimeout: cfg.Store.ConnectTimeout,
		Logger:         logger,
		Registerer:     prometheus.DefaultRegisterer,
	})

	store := mongostore.NewQuoteStore(res.conns, mongostore.StoreConfig{
		Database:   cfg.Store.Database,
		Collection: cfg.Store.Collection,
		Logger:     logger,
	})

	// 6. Optional history cache. The interface stays nil when disabled.
	var cache ports.Cache

	if cfg.Cache.Enabled {
		res.cache, err = rediscache.New(rediscache.Config{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return fmt.Errorf("creating history cache: %w", err)
		}

		cache = res.cache
	}

	// 7. Quote source (ACL over the instrumented HTTP client)
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating quote source client: %w", err)
	}

	source := acl.NewAnimeChanClient(acl.AnimeChanClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	// 8. Application services
	res.persister = app.NewPersister(app.PersisterConfig{
		Store:      store,
		Cache:      cache,
		Timeout:    cfg.Persist.Timeout,
		Logger:     logger,
		Registerer: prometheus.DefaultRegisterer,
	})

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Source:      source,
		Store:       store,
		Cache:       cache,
		Persister:   res.persister,
		PersistWait: cfg.Persist.Wait,
	})

	historyService := app.NewHistoryService(app.HistoryServiceConfig{
		Store:           store,
		Cache:           cache,
		CacheTTLSeconds: cfg.Cache.TTLSeconds,
		DefaultLimit:    cfg.Store.HistoryLimit,
		MaxLimit:        cfg.Store.MaxHistory,
	})

	// 9. Health registry: the store is critical, the source and cache are not
	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Server.HealthTimeout))

	checkers := []ports.HealthChecker{mongostore.NewHealthChecker(res.conns), source}
	if res.cache != nil {
		checkers = append(checkers, res.cache)
	}

	for _, checker := range checkers {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	// 10. HTTP server and routes
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:    cfg.App.Name,
		HealthHandler:  handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		QuoteHandler:   handlers.NewQuoteHandler(quoteService),
		HistoryHandler: handlers.NewHistoryHandler(historyService),
		Timeout:        cfg.Server.RequestTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return errors.Join(err, res.close(ctx, logger, cfg.Server.ShutdownTimeout))
	}

	// 11. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, res, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then stops the server and releases every resource.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	res *resources,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error

	select {
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}

	runErr = errors.Join(runErr, res.close(shutdownCtx, logger, shutdownTimeout))

	logger.Info("shutdown complete")

	return runErr
}

// close finishes pending quote writes, then closes the store, cache and
// telemetry exporters. Writes are drained first because they still need
// the store client.
func (r *resources) close(ctx context.Context, logger *slog.Logger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error

	if r.persister != nil {
		if err := r.persister.Drain(ctx); err != nil {
			logger.Warn("pending quote writes abandoned", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	var g errgroup.Group

	if r.conns != nil {
		g.Go(func() error { return r.conns.Close(ctx) })
	}

	if r.cache != nil {
		g.Go(r.cache.Close)
	}

	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}

	if r.telemetry != nil {
		if err := r.telemetry.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
