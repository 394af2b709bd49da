package ai

import (
	"context"

	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.ChatModel = (*limitedChat)(nil)

type limitedChat struct {
	inner adapter.ChatModel
	sem   chan struct{}
}

// NewLimitedChat caps the number of in-flight chat model calls. The chat
// call is one of only two suspension points per request, so the cap bounds
// outbound pressure on the provider.
func NewLimitedChat(inner adapter.ChatModel, maxConcurrent int) adapter.ChatModel {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedChat{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedChat) Name() string { return l.inner.Name() }

func (l *limitedChat) Chat(ctx context.Context, instruction string, history []adapter.Message, userText string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Chat(ctx, instruction, history, userText)
}
