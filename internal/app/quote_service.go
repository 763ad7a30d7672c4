package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/anime-quote-service/internal/ports"
)

// PersistWarning is shown to the caller when a fetched quote could not be
// saved. The quote itself is still returned.
const PersistWarning = "The quote was fetched but could not be saved to your history."

// FetchResult is the outcome of FetchAndPersist.
type FetchResult struct {
	Payload domain.QuotePayload
	Quote   domain.Quote
	OwnerID string
	Minted  bool
	Persist PersistOutcome
	Warning string
}

// SaveResult is the outcome of Save.
type SaveResult struct {
	Record  domain.QuoteRecord
	OwnerID string
	Minted  bool
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	Source    ports.QuoteSource
	Store     ports.QuoteStore
	Cache     ports.Cache
	Persister *Persister
	Identity  *IdentityResolver

	// PersistWait is how long FetchAndPersist waits to learn the write's
	// outcome. Zero reports every write as pending.
	PersistWait time.Duration
}

// QuoteService orchestrates the quote use cases.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	source    ports.QuoteSource
	store     ports.QuoteStore
	cache     ports.Cache
	persister *Persister
	identity  *IdentityResolver
	wait      time.Duration
}

// NewQuoteService creates the service. It panics when Source, Store or
// Persister is missing.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Source == nil || cfg.Store == nil || cfg.Persister == nil {
		panic("app: QuoteServiceConfig requires Source, Store and Persister")
	}

	identity := cfg.Identity
	if identity == nil {
		identity = NewIdentityResolver()
	}

	return &QuoteService{
		source:    cfg.Source,
		store:     cfg.Store,
		cache:     cfg.Cache,
		persister: cfg.Persister,
		identity:  identity,
		wait:      cfg.PersistWait,
	}
}

// FetchAndPersist fetches a random quote and saves it for the resolved
// owner. Source failures are returned as errors and nothing is saved.
// A failed save never fails the call; it is reported through
// FetchResult.Persist and FetchResult.Warning.
func (s *QuoteService) FetchAndPersist(ctx context.Context, existing string) (*FetchResult, error) {
	payload, err := s.source.RandomQuote(ctx)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "quote source failed", slog.Any("error", err))
		return nil, err
	}

	owner, minted := s.identity.Resolve(existing)
	ctx = logging.WithOwnerID(ctx, owner)

	quote := domain.QuoteFromPayload(payload)
	done := s.persister.Persist(ctx, domain.QuoteRecord{OwnerID: owner, Quote: quote})

	result := &FetchResult{
		Payload: payload,
		Quote:   quote,
		OwnerID: owner,
		Minted:  minted,
	}
	result.Persist = s.awaitPersist(ctx, done)

	if result.Persist == PersistFailed {
		result.Warning = PersistWarning
	}

	logging.FromContext(ctx).InfoContext(ctx, "quote fetched",
		slog.String("anime", quote.Anime.Name),
		slog.Bool("minted", minted),
		slog.String("persist", string(result.Persist)),
	)

	return result, nil
}

func (s *QuoteService) awaitPersist(ctx context.Context, done <-chan error) PersistOutcome {
	if s.wait <= 0 {
		return PersistPending
	}

	timer := time.NewTimer(s.wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return PersistFailed
		}

		return PersistSaved
	case <-timer.C:
		return PersistPending
	case <-ctx.Done():
		return PersistPending
	}
}

type saveInput struct {
	payload  domain.QuotePayload
	supplied string
}

type saveDraft struct {
	record domain.QuoteRecord
	minted bool
}

// Save stores payload for the supplied owner, minting one if supplied is
// empty. The write is synchronous; its failure fails the call.
func (s *QuoteService) Save(ctx context.Context, payload domain.QuotePayload, supplied string) (*SaveResult, error) {
	return Run(ctx, Pipeline[saveInput, *saveDraft, *SaveResult]{
		Name: "save_quote",
		Validate: func(_ context.Context, in saveInput) error {
			if in.payload == nil {
				return domain.NewMissingParameterError("quoteData")
			}

			return nil
		},
		Resolve: func(_ context.Context, in saveInput) (*saveDraft, error) {
			owner, minted := s.identity.Resolve(in.supplied)

			return &saveDraft{
				record: domain.QuoteRecord{OwnerID: owner, Quote: domain.QuoteFromPayload(in.payload)},
				minted: minted,
			}, nil
		},
		Archive: func(ctx context.Context, d *saveDraft) error {
			ctx = logging.WithOwnerID(ctx, d.record.OwnerID)

			if err := s.store.Insert(ctx, &d.record); err != nil {
				return err
			}

			invalidateHistory(ctx, s.cache, d.record.OwnerID)

			return nil
		},
		Respond: func(_ context.Context, d *saveDraft) (*SaveResult, error) {
			return &SaveResult{Record: d.record, OwnerID: d.record.OwnerID, Minted: d.minted}, nil
		},
	}, saveInput{payload: payload, supplied: supplied})
}
