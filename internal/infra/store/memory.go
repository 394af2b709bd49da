package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/repository"
	"github.com/JUDEBARNABAS/atim/internal/infra/metrics"
)

// Compile-time check
var _ repository.ConversationStore = (*MemoryStore)(nil)

type memEntry struct {
	mu       sync.Mutex
	conv     *model.Conversation
	lastUsed time.Time
}

// MemoryStore keeps conversations in process memory, keyed by the exact
// (session id, instruction) pair. Each entry carries its own mutex, held
// for the whole of With, so two requests racing on the same key serialize
// while different keys never contend.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	log     *zerolog.Logger
}

func NewMemoryStore(logger *zerolog.Logger) *MemoryStore {
	storeLog := logger.With().Str("component", "MemoryStore").Logger()
	return &MemoryStore{
		entries: make(map[string]*memEntry),
		log:     &storeLog,
	}
}

func (m *MemoryStore) With(ctx context.Context, key model.ConversationKey, fn func(conv *model.Conversation) error) error {
	m.mu.Lock()
	e, ok := m.entries[key.String()]
	if !ok {
		e = &memEntry{conv: model.NewConversation(key), lastUsed: time.Now()}
		m.entries[key.String()] = e
		m.log.Debug().Str("session_id", key.SessionID).Msg("conversation created")
		metrics.SetConversationsLive(len(m.entries))
	}
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = time.Now()
	return fn(e.conv)
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

// EvictIdle removes conversations unused for at least idleFor. Entries that
// are mid-request (per-key lock held) are skipped and picked up on a later
// sweep.
func (m *MemoryStore) EvictIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := time.Now().Add(-idleFor)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for k, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastUsed.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(m.entries, k)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.SetConversationsLive(len(m.entries))
		m.log.Info().Int("count", evicted).Msg("idle conversations evicted")
	}
	return evicted, nil
}
