package ai

import (
	"context"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
)

var _ adapter.ChatModel = (*NoopAIAdapter)(nil)

// NoopAIAdapter stands in when no AI provider credential is configured.
// Every call fails with a ChatError so the chat feature is disabled rather
// than the process refusing to start.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter { return &NoopAIAdapter{} }

func (a *NoopAIAdapter) Name() string { return "noop" }

func (a *NoopAIAdapter) Chat(ctx context.Context, instruction string, history []adapter.Message, userText string) (string, error) {
	return "", &domain.ChatError{Cause: domain.ErrNotConfigured}
}
