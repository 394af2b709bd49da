package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/JUDEBARNABAS/atim/internal/domain/ports/repository"
	"github.com/JUDEBARNABAS/atim/internal/infra/metrics"
)

// EvictionWorker periodically drops idle conversations from the store.
type EvictionWorker struct {
	interval time.Duration
	idleTTL  time.Duration
	store    repository.ConversationStore
	log      *zerolog.Logger
}

func NewEvictionWorker(interval, idleTTL time.Duration, store repository.ConversationStore, logger *zerolog.Logger) *EvictionWorker {
	evictLog := logger.With().Str("component", "EvictionWorker").Logger()
	return &EvictionWorker{
		interval: interval,
		idleTTL:  idleTTL,
		store:    store,
		log:      &evictLog,
	}
}

func (w *EvictionWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("idle_ttl", w.idleTTL).Msg("Starting eviction worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping eviction worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.store.EvictIdle(ctx, w.idleTTL)
			if err != nil {
				w.log.Error().Err(err).Msg("eviction worker error")
			}
			if n > 0 {
				metrics.AddConversationsEvicted(n)
			}
		}
	}
}
