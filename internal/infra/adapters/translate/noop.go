package translate

import (
	"context"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
)

var _ Backend = (*Noop)(nil)

// Noop stands in when no translation endpoint is configured. Every call
// fails with ServiceUnavailable so the feature is disabled rather than the
// process refusing to start.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Name() string { return "noop" }

func (n *Noop) Translate(ctx context.Context, text string, source, target model.LanguageCode) (string, error) {
	return "", &domain.ServiceUnavailableError{Service: "translation", Cause: domain.ErrNotConfigured}
}
