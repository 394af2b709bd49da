package adapter

import (
	"context"

	"github.com/JUDEBARNABAS/atim/internal/domain/model"
)

// Translator is the port for converting text between two supported
// languages. Implementations are stateless and safe for concurrent use.
type Translator interface {
	Translate(ctx context.Context, text string, source, target model.LanguageCode) (string, error)
}
