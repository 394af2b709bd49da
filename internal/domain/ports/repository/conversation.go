package repository

import (
	"context"
	"time"

	"github.com/JUDEBARNABAS/atim/internal/domain/model"
)

// ConversationStore is the port for per-session conversation state.
//
// With runs fn with the conversation for key, creating an empty one on first
// use. The store serializes calls for the same key: fn runs under a per-key
// lock, so callers can read history, perform the model call, and append the
// exchange without racing a concurrent request for the same session.
// Requests for different keys do not contend. A non-nil error from fn
// discards any persistence step; mutations made by fn are only durable when
// fn returns nil.
type ConversationStore interface {
	With(ctx context.Context, key model.ConversationKey, fn func(conv *model.Conversation) error) error

	// Count reports the number of live conversations.
	Count(ctx context.Context) (int, error)

	// EvictIdle drops conversations unused for at least idleFor and returns
	// how many were removed. Implementations backed by TTL-expiring storage
	// may report 0 and let the backend expire keys itself.
	EvictIdle(ctx context.Context, idleFor time.Duration) (int, error)
}
