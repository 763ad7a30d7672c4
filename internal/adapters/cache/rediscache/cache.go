// Package rediscache implements ports.Cache on Redis. The service uses it to
// hold recently served history pages.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/anime-quote-service/internal/ports"
)

const (
	defaultDialTimeout = 2 * time.Second
	defaultReadTimeout = 2 * time.Second
)

// Config configures the Redis connection.
type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Cache is a ports.Cache backed by a go-redis client.
type Cache struct {
	client *redis.Client
}

// New creates the client and attaches OpenTelemetry instrumentation.
// No connection is made until the first command.
func New(cfg Config) (*Cache, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}

	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrumenting redis tracing: %w", err)
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("instrumenting redis metrics: %w", err)
	}

	return &Cache{client: client}, nil
}

// Get implements ports.Cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrCacheMiss
		}

		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return data, nil
}

// Set implements ports.Cache. A ttlSeconds of zero keeps the key forever.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	ttl := time.Duration(ttlSeconds) * time.Second

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Delete implements ports.Cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Name implements ports.HealthChecker.
func (c *Cache) Name() string {
	return "redis"
}

// Check implements ports.HealthChecker.
func (c *Cache) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Optional implements ports.OptionalDependency. History is served from the
// store when the cache is down.
func (c *Cache) Optional() bool {
	return true
}
