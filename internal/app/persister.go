package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/anime-quote-service/internal/ports"
)

const defaultPersistTimeout = 10 * time.Second

// PersistOutcome reports what a fetch response knows about its write.
type PersistOutcome string

const (
	PersistSaved   PersistOutcome = "saved"
	PersistFailed  PersistOutcome = "failed"
	PersistPending PersistOutcome = "pending"
)

// PersisterConfig configures a Persister.
type PersisterConfig struct {
	Store ports.QuoteStore

	// Cache, when set, has the owner's history entry removed after a write.
	Cache ports.Cache

	// Timeout bounds each background insert.
	Timeout time.Duration

	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

// Persister writes quote records in the background. A write is detached
// from the request that started it: cancelling the request does not
// cancel the write.
type Persister struct {
	store    ports.QuoteStore
	cache    ports.Cache
	timeout  time.Duration
	logger   *slog.Logger
	outcomes *prometheus.CounterVec
	wg       sync.WaitGroup
}

// NewPersister creates a Persister. It panics if cfg.Store is nil.
func NewPersister(cfg PersisterConfig) *Persister {
	if cfg.Store == nil {
		panic("app: PersisterConfig.Store is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultPersistTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Persister{
		store:   cfg.Store,
		cache:   cfg.Cache,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "app.Persister")),
		outcomes: promauto.With(cfg.Registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "quotes_persist_total",
			Help: "Background quote writes by result.",
		}, []string{"result"}),
	}
}

// Persist starts writing rec and returns immediately. The returned channel
// receives the write's result exactly once; it is buffered, so callers
// may stop listening at any time.
func (p *Persister) Persist(ctx context.Context, rec domain.QuoteRecord) <-chan error {
	done := make(chan error, 1)
	detached := context.WithoutCancel(ctx)

	p.wg.Go(func() {
		ctx, cancel := context.WithTimeout(detached, p.timeout)
		defer cancel()

		done <- p.write(ctx, &rec)
	})

	return done
}

func (p *Persister) write(ctx context.Context, rec *domain.QuoteRecord) error {
	start := time.Now()

	if err := p.store.Insert(ctx, rec); err != nil {
		p.outcomes.WithLabelValues("failure").Inc()

		logging.FromContext(ctx).ErrorContext(ctx, "background quote write failed",
			slog.String("owner_id", rec.OwnerID),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return domain.NewPersistError(rec.OwnerID, err)
	}

	p.outcomes.WithLabelValues("success").Inc()
	invalidateHistory(ctx, p.cache, rec.OwnerID)

	logging.FromContext(ctx).DebugContext(ctx, "quote persisted",
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

// Drain waits for in-flight writes. It returns ctx's error if they do not
// finish first.
func (p *Persister) Drain(ctx context.Context) error {
	finished := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		p.logger.InfoContext(ctx, "background writes drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining background writes: %w", ctx.Err())
	}
}
