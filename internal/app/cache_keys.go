package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jsamuelsen/anime-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/anime-quote-service/internal/ports"
)

// History pages are cached per owner generation. Every insert starts a new
// generation, so a page computed from a snapshot older than the insert is
// written under a key that no reader looks up again.
//
//	history-gen:<owner>          current generation token, no expiry
//	history:<owner>:<generation> cached default-sized page, with TTL

func historyGenerationKey(owner string) string {
	return "history-gen:" + owner
}

func historyPageKey(owner, generation string) string {
	return "history:" + owner + ":" + generation
}

// historyGeneration returns the owner's current generation. When none is
// recorded it starts one before the caller queries the store. ok is false
// when the cache cannot be used for this read.
func historyGeneration(ctx context.Context, cache ports.Cache, owner string) (generation string, ok bool) {
	data, err := cache.Get(ctx, historyGenerationKey(owner))
	if err == nil && len(data) > 0 {
		return string(data), true
	}

	if err != nil && !errors.Is(err, ports.ErrCacheMiss) {
		logging.FromContext(ctx).WarnContext(ctx, "history generation read failed", slog.Any("error", err))
		return "", false
	}

	generation = uuid.NewString()
	if err := cache.Set(ctx, historyGenerationKey(owner), []byte(generation), 0); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "history generation write failed", slog.Any("error", err))
		return "", false
	}

	return generation, true
}

// invalidateHistory starts a new generation for the owner after an insert.
// A failure leaves the previous page readable until its TTL expires, so it
// is logged and ignored.
func invalidateHistory(ctx context.Context, cache ports.Cache, owner string) {
	if cache == nil {
		return
	}

	if err := cache.Set(ctx, historyGenerationKey(owner), []byte(uuid.NewString()), 0); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "history cache invalidation failed",
			slog.String("owner_id", owner),
			slog.Any("error", err),
		)
	}
}
