// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrStoreUnavailable, ErrRateLimited, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"errors"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is not present.
var ErrCacheMiss = errors.New("cache miss")

// QuoteSource fetches quotes from the external content API.
//
// Implementations classify failures as:
//   - domain.ErrSourceUnavailable when no response was received
//   - domain.ErrRateLimited for HTTP 429
//   - domain.ErrSourceFailure (*domain.SourceError) for any other non-success status
type QuoteSource interface {
	// RandomQuote returns the raw payload of one random quote.
	RandomQuote(ctx context.Context) (domain.QuotePayload, error)
}

// QuoteStore persists and queries quote records.
type QuoteStore interface {
	// Insert writes a new record. A zero Timestamp is replaced with the
	// store's current time; the stored value is written back into rec.
	// Returns domain.ErrStoreUnavailable if the store cannot be reached.
	Insert(ctx context.Context, rec *domain.QuoteRecord) error

	// RecentByOwner returns at most limit records for owner, newest first.
	// An owner without records yields an empty slice and no error.
	RecentByOwner(ctx context.Context, owner string, limit int) ([]domain.QuoteRecord, error)
}

// Cache defines the contract for caching operations.
// Implementations may use Redis, Memcached, or in-memory caches.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns ErrCacheMiss if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
