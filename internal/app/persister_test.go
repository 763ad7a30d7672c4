package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/anime-quote-service/internal/domain"
	"github.com/jsamuelsen/anime-quote-service/internal/mocks"
)

func newTestPersister(store *mocks.MockQuoteStore, cache *mocks.MockCache) *Persister {
	cfg := PersisterConfig{
		Store:      store,
		Timeout:    time.Second,
		Logger:     discardLogger(),
		Registerer: prometheus.NewRegistry(),
	}

	if cache != nil {
		cfg.Cache = cache
	}

	return NewPersister(cfg)
}

func TestNewPersister_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		NewPersister(PersisterConfig{})
	})
}

func TestPersister_Success(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	cache := mocks.NewMockCache(t)

	store.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(rec *domain.QuoteRecord) bool {
		return rec.OwnerID == "U1"
	})).Return(nil)
	cache.EXPECT().Set(mock.Anything, "history-gen:U1", mock.Anything, 0).Return(nil)

	p := newTestPersister(store, cache)

	err := <-p.Persist(context.Background(), domain.QuoteRecord{OwnerID: "U1"})

	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(p.outcomes.WithLabelValues("success")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(p.outcomes.WithLabelValues("failure")), 0)
}

func TestPersister_Failure(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	storeErr := domain.NewStoreUnavailableError("insert", errors.New("no reachable servers"))

	store.EXPECT().Insert(mock.Anything, mock.Anything).Return(storeErr)

	p := newTestPersister(store, nil)

	err := <-p.Persist(context.Background(), domain.QuoteRecord{OwnerID: "U1"})

	require.Error(t, err)
	assert.True(t, domain.IsPersistFailure(err))
	assert.True(t, domain.IsStoreUnavailable(err))

	var persistErr *domain.PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "U1", persistErr.OwnerID)

	assert.InDelta(t, 1, testutil.ToFloat64(p.outcomes.WithLabelValues("failure")), 0)
}

func TestPersister_CacheFailureDoesNotFailWrite(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	cache := mocks.NewMockCache(t)

	store.EXPECT().Insert(mock.Anything, mock.Anything).Return(nil)
	cache.EXPECT().Set(mock.Anything, "history-gen:U1", mock.Anything, 0).Return(errors.New("redis down"))

	p := newTestPersister(store, cache)

	assert.NoError(t, <-p.Persist(context.Background(), domain.QuoteRecord{OwnerID: "U1"}))
}

func TestPersister_DetachedFromRequest(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	release := make(chan struct{})

	var writeCtxErr error

	store.EXPECT().Insert(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, _ *domain.QuoteRecord) error {
			<-release
			writeCtxErr = ctx.Err()
			return nil
		})

	p := newTestPersister(store, nil)

	reqCtx, cancel := context.WithCancel(context.Background())
	done := p.Persist(reqCtx, domain.QuoteRecord{OwnerID: "U1"})
	cancel()
	close(release)

	require.NoError(t, <-done)
	assert.NoError(t, writeCtxErr)
}

func TestPersister_WriteHasTimeout(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)

	store.EXPECT().Insert(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, _ *domain.QuoteRecord) error {
			<-ctx.Done()
			return domain.NewStoreUnavailableError("insert", ctx.Err())
		})

	p := NewPersister(PersisterConfig{Store: store, Timeout: 20 * time.Millisecond})

	err := <-p.Persist(context.Background(), domain.QuoteRecord{OwnerID: "U1"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPersister_Drain(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	release := make(chan struct{})

	store.EXPECT().Insert(mock.Anything, mock.Anything).RunAndReturn(
		func(context.Context, *domain.QuoteRecord) error {
			<-release
			return nil
		})

	p := newTestPersister(store, nil)
	p.Persist(context.Background(), domain.QuoteRecord{OwnerID: "U1"})

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Drain(short)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)

	require.NoError(t, p.Drain(context.Background()))
}

func TestPersister_DrainIdle(t *testing.T) {
	p := newTestPersister(mocks.NewMockQuoteStore(t), nil)

	assert.NoError(t, p.Drain(context.Background()))
}
