package usecase

import (
	"context"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
)

// Compile-time check
var _ TranslateUseCase = (*translateUC)(nil)

// TranslateUseCase exposes plain translation for the /translate_simple
// route, without any session or chat involvement.
type TranslateUseCase interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

type translateUC struct {
	translator adapter.Translator
}

func NewTranslateUseCase(translator adapter.Translator) *translateUC {
	return &translateUC{translator: translator}
}

func (u *translateUC) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if text == "" || sourceLang == "" || targetLang == "" {
		return "", domain.ErrInvalidArgument
	}
	source := model.LanguageCode(sourceLang)
	target := model.LanguageCode(targetLang)
	if source == target {
		return text, nil
	}
	return u.translator.Translate(ctx, text, source, target)
}
