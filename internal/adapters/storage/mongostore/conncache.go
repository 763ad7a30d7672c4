// Package mongostore persists quote records in MongoDB.
//
// All access goes through a ConnectionCache: the first caller dials, callers
// that arrive during the dial share its result, and every later caller
// reuses the cached *mongo.Client.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
)

const (
	defaultConnectTimeout = 10 * time.Second

	// flightKey is the single singleflight key; there is only one connection.
	flightKey = "mongo"

	ownerTimestampIndex = "ownerId_1_timestamp_-1"
)

// Dialer opens, verifies and prepares a client. ctx carries the connect
// timeout.
type Dialer func(ctx context.Context) (*mongo.Client, error)

// CacheConfig configures a ConnectionCache.
type CacheConfig struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration

	Logger *slog.Logger

	// Registerer receives the connection attempt counter. Nil leaves it
	// unregistered.
	Registerer prometheus.Registerer
}

// CacheOption customises a ConnectionCache.
type CacheOption func(*ConnectionCache)

// WithDialer replaces the MongoDB dial sequence.
func WithDialer(d Dialer) CacheOption {
	return func(c *ConnectionCache) {
		c.dial = d
	}
}

// ConnectionCache lazily establishes one MongoDB connection and shares it.
//
// At most one dial is in flight. A failed dial is not cached, so the next
// Acquire tries again. The dial is detached from the caller: a caller that
// gives up does not abort a dial other callers may be waiting on.
type ConnectionCache struct {
	mu     sync.RWMutex
	client *mongo.Client

	group          singleflight.Group
	dial           Dialer
	connectTimeout time.Duration
	logger         *slog.Logger
	attempts       *prometheus.CounterVec
}

// NewConnectionCache creates a cache; no connection is made until the
// first Acquire.
func NewConnectionCache(cfg CacheConfig, opts ...CacheOption) *ConnectionCache {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	c := &ConnectionCache{
		dial:           dialMongo(cfg.URI, cfg.Database, cfg.Collection),
		connectTimeout: timeout,
		logger:         logger.With(slog.String("component", "mongostore.ConnectionCache")),
		attempts: promauto.With(cfg.Registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "quotes_store_connection_attempts_total",
			Help: "MongoDB connection attempts by result.",
		}, []string{"result"}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Acquire returns the shared client, dialing it first if needed.
// Failures are returned as *domain.StoreUnavailableError.
func (c *ConnectionCache) Acquire(ctx context.Context) (*mongo.Client, error) {
	if client := c.cached(); client != nil {
		return client, nil
	}

	ch := c.group.DoChan(flightKey, func() (any, error) {
		// A flight that finished just before this one started has already
		// stored the client.
		if client := c.cached(); client != nil {
			return client, nil
		}

		return c.connect(ctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, domain.NewStoreUnavailableError("connect", res.Err)
		}

		return res.Val.(*mongo.Client), nil
	case <-ctx.Done():
		return nil, domain.NewStoreUnavailableError("connect", ctx.Err())
	}
}

// Close disconnects the cached client, if any.
func (c *ConnectionCache) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnecting mongo: %w", err)
	}

	return nil
}

func (c *ConnectionCache) cached() *mongo.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.client
}

// connect runs one dial. It must only be called inside the flight.
func (c *ConnectionCache) connect(caller context.Context) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(caller), c.connectTimeout)
	defer cancel()

	start := time.Now()

	client, err := c.dial(ctx)
	if err != nil {
		c.attempts.WithLabelValues("failure").Inc()
		c.logger.ErrorContext(ctx, "mongo connection failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		return nil, err
	}

	c.attempts.WithLabelValues("success").Inc()
	c.logger.InfoContext(ctx, "mongo connected", slog.Duration("duration", time.Since(start)))

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	return client, nil
}

// dialMongo connects, pings the primary and ensures the history index.
func dialMongo(uri, database, collection string) Dialer {
	return func(ctx context.Context) (*mongo.Client, error) {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return nil, fmt.Errorf("connecting: %w", err)
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, fmt.Errorf("pinging primary: %w", err)
		}

		if err := ensureIndexes(ctx, client.Database(database).Collection(collection)); err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, err
		}

		return client, nil
	}
}

// ensureIndexes creates the index that serves history queries. Creating an
// existing index with the same spec is a no-op.
func ensureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: fieldOwnerID, Value: 1},
			{Key: fieldTimestamp, Value: -1},
		},
		Options: options.Index().SetName(ownerTimestampIndex),
	})
	if err != nil {
		return fmt.Errorf("creating history index: %w", err)
	}

	return nil
}
