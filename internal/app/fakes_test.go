package app

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
	"github.com/jsamuelsen/anime-quote-service/internal/ports"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory QuoteStore that honours sort order and limit.
type memStore struct {
	mu      sync.Mutex
	records []domain.QuoteRecord
	now     func() time.Time
}

func newMemStore() *memStore {
	return &memStore{now: time.Now}
}

func (m *memStore) Insert(_ context.Context, rec *domain.QuoteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.OwnerID == "" {
		return domain.NewMissingParameterError("ownerId")
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = m.now().UTC()
	}

	m.records = append(m.records, *rec)

	return nil
}

func (m *memStore) RecentByOwner(_ context.Context, owner string, limit int) ([]domain.QuoteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []domain.QuoteRecord{}
	for _, rec := range m.records {
		if rec.OwnerID == owner {
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records)
}

// memCache is an in-memory ports.Cache. TTLs are ignored.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.entries[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}

	return data, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = value

	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// gatedStore holds its first history query after the snapshot is taken
// until release is closed. Later queries pass straight through.
type gatedStore struct {
	*memStore

	once          sync.Once
	snapshotTaken chan struct{}
	release       chan struct{}
}

func newGatedStore(store *memStore) *gatedStore {
	return &gatedStore{
		memStore:      store,
		snapshotTaken: make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (g *gatedStore) RecentByOwner(ctx context.Context, owner string, limit int) ([]domain.QuoteRecord, error) {
	records, err := g.memStore.RecentByOwner(ctx, owner, limit)

	first := false
	g.once.Do(func() {
		first = true
		close(g.snapshotTaken)
	})

	if first {
		<-g.release
	}

	return records, err
}
