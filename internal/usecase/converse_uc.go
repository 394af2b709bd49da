package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/repository"
	"github.com/JUDEBARNABAS/atim/internal/infra/logging"
)

// Compile-time check
var _ ConverseUseCase = (*converseUC)(nil)

type ConverseInput struct {
	Message     string
	SourceLang  string
	TargetLang  string
	Instruction string
	SessionID   string
}

type ConverseResult struct {
	Reply string
	// TranslationNote is set when the reply chat turn succeeded but the
	// output translation did not; Reply then carries the pivot-language
	// text with an appended note.
	TranslationNote bool
	// Turns is the conversation's turn count after this exchange.
	Turns int
}

// ConverseUseCase runs the translate-in, chat, translate-out pipeline for
// one user message.
type ConverseUseCase interface {
	Converse(ctx context.Context, in ConverseInput) (ConverseResult, error)
}

type converseUC struct {
	store      repository.ConversationStore
	translator adapter.Translator
	chat       adapter.ChatModel
	langs      *model.LanguageRegistry
	log        *zerolog.Logger
	devMode    bool
}

func NewConverseUseCase(
	store repository.ConversationStore,
	translator adapter.Translator,
	chat adapter.ChatModel,
	langs *model.LanguageRegistry,
	logger *zerolog.Logger,
	devMode bool,
) *converseUC {
	ucLog := logger.With().Str("component", "ConverseUC").Logger()
	return &converseUC{
		store:      store,
		translator: translator,
		chat:       chat,
		langs:      langs,
		log:        &ucLog,
		devMode:    devMode,
	}
}

// Converse sequences the pipeline. Stage order matters: a failed input
// translation must return before the chat store is touched, and a failed
// chat call must commit no turns. A failed output translation is not fatal;
// the pivot-language reply is returned with a note (the chat turn already
// succeeded, discarding it would waste a completed model call).
func (u *converseUC) Converse(ctx context.Context, in ConverseInput) (ConverseResult, error) {
	defer logging.TraceDuration(u.log, "ConverseUC.Converse")()
	log := logging.With(ctx, u.log)

	if in.SessionID == "" {
		return ConverseResult{}, domain.ErrSessionMissing
	}
	if in.Message == "" {
		return ConverseResult{}, domain.ErrEmptyMessage
	}
	log.Debug().
		Str("source", in.SourceLang).
		Str("target", in.TargetLang).
		Str("message", logging.Redact(in.Message, u.devMode)).
		Msg("converse")

	pivot := u.langs.Pivot()
	source := codeOrPivot(in.SourceLang, pivot)
	target := codeOrPivot(in.TargetLang, pivot)

	// Stage 1: bring the user message into the pivot language. Identity
	// pairs skip the gateway entirely.
	pivotText := in.Message
	if source != pivot {
		translated, err := u.translator.Translate(ctx, in.Message, source, pivot)
		if err != nil {
			return ConverseResult{}, &domain.StageError{Stage: domain.StageTranslateIn, Err: err}
		}
		pivotText = translated
	}

	// Stage 2: run the chat turn under the conversation's lock. Turns are
	// appended only after the model call succeeds.
	key := model.ConversationKey{SessionID: in.SessionID, Instruction: in.Instruction}
	var reply string
	var turns int
	err := u.store.With(ctx, key, func(conv *model.Conversation) error {
		history := toMessages(conv.History())
		r, err := u.chat.Chat(ctx, in.Instruction, history, pivotText)
		if err != nil {
			return err
		}
		conv.AddExchange(pivotText, r)
		reply = r
		turns = conv.Len()
		return nil
	})
	if err != nil {
		return ConverseResult{}, &domain.StageError{Stage: domain.StageChat, Err: err}
	}

	// Stage 3: bring the reply into the target language.
	if target != pivot {
		translated, err := u.translator.Translate(ctx, reply, pivot, target)
		if err != nil {
			log.Warn().Err(err).
				Str("target", string(target)).
				Msg("reply translation failed, returning pivot text with note")
			note := fmt.Sprintf(" (Note: could not translate this reply to %s: %v)", u.langs.DisplayName(target), err)
			return ConverseResult{Reply: reply + note, TranslationNote: true, Turns: turns}, nil
		}
		reply = translated
	}

	return ConverseResult{Reply: reply, Turns: turns}, nil
}

func codeOrPivot(code string, pivot model.LanguageCode) model.LanguageCode {
	if code == "" {
		return pivot
	}
	return model.LanguageCode(code)
}

func toMessages(turns []model.Turn) []adapter.Message {
	out := make([]adapter.Message, 0, len(turns))
	for _, t := range turns {
		out = append(out, adapter.Message{Role: t.Role, Content: t.Content})
	}
	return out
}
