package translate

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
	"github.com/JUDEBARNABAS/atim/internal/infra/metrics"
)

// Backend performs the actual translation once the gateway has validated
// the request. Remote HTTP and in-process model backends are interchangeable
// here without the orchestrator noticing.
type Backend interface {
	Translate(ctx context.Context, text string, source, target model.LanguageCode) (string, error)
	Name() string
}

// Compile-time check
var _ adapter.Translator = (*Gateway)(nil)

// Gateway fronts a translation backend with the contract-level checks that
// are backend-independent: empty input short-circuits, language codes must
// be in the supported set. It is stateless and safe for concurrent use.
type Gateway struct {
	backend Backend
	langs   *model.LanguageRegistry
	log     *zerolog.Logger
}

func NewGateway(backend Backend, langs *model.LanguageRegistry, logger *zerolog.Logger) *Gateway {
	gwLog := logger.With().Str("component", "TranslationGateway").Str("backend", backend.Name()).Logger()
	return &Gateway{backend: backend, langs: langs, log: &gwLog}
}

func (g *Gateway) Translate(ctx context.Context, text string, source, target model.LanguageCode) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	for _, code := range []model.LanguageCode{source, target} {
		if !g.langs.Supported(code) {
			return "", &domain.UnsupportedLanguageError{Code: string(code), Supported: g.langs.Codes()}
		}
	}

	start := time.Now()
	out, err := g.backend.Translate(ctx, text, source, target)
	metrics.ObserveTranslation(g.backend.Name(), time.Since(start), len(text), err)
	if err != nil {
		g.log.Warn().Err(err).
			Str("source", string(source)).
			Str("target", string(target)).
			Msg("translation failed")
		return "", err
	}
	return out, nil
}
