package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/anime-quote-service/internal/ports"
)

const (
	defaultHistoryLimit = 10
	defaultMaxHistory   = 50
)

// HistoryServiceConfig contains the dependencies of the history service.
type HistoryServiceConfig struct {
	Store ports.QuoteStore

	// Cache, when set, fronts default-sized history reads.
	Cache           ports.Cache
	CacheTTLSeconds int

	DefaultLimit int
	MaxLimit     int
}

// HistoryService serves an owner's most recent quotes.
type HistoryService struct {
	store        ports.QuoteStore
	cache        ports.Cache
	ttl          int
	defaultLimit int
	maxLimit     int
}

// NewHistoryService creates the service. It panics if cfg.Store is nil.
func NewHistoryService(cfg HistoryServiceConfig) *HistoryService {
	if cfg.Store == nil {
		panic("app: HistoryServiceConfig.Store is required")
	}

	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = defaultHistoryLimit
	}

	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = defaultMaxHistory
	}

	return &HistoryService{
		store:        cfg.Store,
		cache:        cfg.Cache,
		ttl:          cfg.CacheTTLSeconds,
		defaultLimit: min(defaultLimit, maxLimit),
		maxLimit:     maxLimit,
	}
}

// Recent returns up to limit of owner's quotes, newest first. A limit of
// zero or less means the default; larger limits are capped. An owner with
// no quotes gets an empty slice.
func (s *HistoryService) Recent(ctx context.Context, owner string, limit int) ([]domain.QuoteRecord, error) {
	if owner == "" {
		return nil, domain.NewMissingParameterError("owner")
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}

	limit = min(limit, s.maxLimit)
	ctx = logging.WithOwnerID(ctx, owner)
	cached := s.cache != nil && limit == s.defaultLimit

	var pageKey string
	if cached {
		var generation string
		if generation, cached = historyGeneration(ctx, s.cache, owner); cached {
			pageKey = historyPageKey(owner, generation)

			if records, ok := s.fromCache(ctx, pageKey); ok {
				return records, nil
			}
		}
	}

	records, err := s.store.RecentByOwner(ctx, owner, limit)
	if err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "history query failed", slog.Any("error", err))
		return nil, err
	}

	if records == nil {
		records = []domain.QuoteRecord{}
	}

	if cached {
		s.toCache(ctx, pageKey, records)
	}

	return records, nil
}

func (s *HistoryService) fromCache(ctx context.Context, key string) ([]domain.QuoteRecord, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			logging.FromContext(ctx).WarnContext(ctx, "history cache read failed", slog.Any("error", err))
		}

		return nil, false
	}

	var records []domain.QuoteRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "history cache entry unreadable", slog.Any("error", err))
		return nil, false
	}

	if records == nil {
		records = []domain.QuoteRecord{}
	}

	return records, true
}

func (s *HistoryService) toCache(ctx context.Context, key string, records []domain.QuoteRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "history cache write failed", slog.Any("error", err))
	}
}
