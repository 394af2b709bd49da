package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/model"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
	"github.com/JUDEBARNABAS/atim/internal/infra/store"
)

// ---- Fakes ----

type fakeTranslator struct {
	mu      sync.Mutex
	calls   int
	results map[string]string // "src->tgt" -> translated text
	failOn  map[string]error  // "src->tgt" -> error
}

func newFakeTranslator() *fakeTranslator {
	return &fakeTranslator{
		results: map[string]string{},
		failOn:  map[string]error{},
	}
}

func (f *fakeTranslator) Translate(ctx context.Context, text string, source, target model.LanguageCode) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	pair := string(source) + "->" + string(target)
	if err, ok := f.failOn[pair]; ok {
		return "", err
	}
	if out, ok := f.results[pair]; ok {
		return out, nil
	}
	return text, nil
}

func (f *fakeTranslator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeChat struct {
	mu        sync.Mutex
	calls     int
	histories [][]adapter.Message
	err       error
	reply     func(userText string) string
}

func (f *fakeChat) Name() string { return "fake" }

func (f *fakeChat) Chat(ctx context.Context, instruction string, history []adapter.Message, userText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	cp := make([]adapter.Message, len(history))
	copy(cp, history)
	f.histories = append(f.histories, cp)
	if f.err != nil {
		return "", f.err
	}
	if f.reply != nil {
		return f.reply(userText), nil
	}
	return "ok", nil
}

func newUC(t *testing.T, tr *fakeTranslator, chat *fakeChat) (*converseUC, *store.MemoryStore) {
	t.Helper()
	logger := zerolog.Nop()
	langs, err := model.NewLanguageRegistry("eng", nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	st := store.NewMemoryStore(&logger)
	return NewConverseUseCase(st, tr, chat, langs, &logger, false), st
}

func historyOf(t *testing.T, st *store.MemoryStore, key model.ConversationKey) []model.Turn {
	t.Helper()
	var turns []model.Turn
	err := st.With(context.Background(), key, func(conv *model.Conversation) error {
		turns = conv.History()
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	return turns
}

// ---- Tests ----

func TestConverseIdentityPairSkipsTranslator(t *testing.T) {
	tr := newFakeTranslator()
	chat := &fakeChat{}
	uc, _ := newUC(t, tr, chat)

	res, err := uc.Converse(context.Background(), ConverseInput{
		Message: "Hello", SourceLang: "eng", TargetLang: "eng",
		Instruction: "be nice", SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if res.Reply != "ok" {
		t.Fatalf("reply = %q, want ok", res.Reply)
	}
	if tr.callCount() != 0 {
		t.Fatalf("translator called %d times for identity pair, want 0", tr.callCount())
	}
}

func TestConverseFullPipeline(t *testing.T) {
	tr := newFakeTranslator()
	tr.results["ach->eng"] = "Hello-in-eng"
	tr.results["eng->lug"] = "Bonjour-lug"
	chat := &fakeChat{reply: strings.ToUpper}
	uc, st := newUC(t, tr, chat)

	res, err := uc.Converse(context.Background(), ConverseInput{
		Message: "Hello", SourceLang: "ach", TargetLang: "lug",
		Instruction: "inst", SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if res.Reply != "Bonjour-lug" {
		t.Fatalf("reply = %q, want Bonjour-lug", res.Reply)
	}
	if res.TranslationNote {
		t.Fatalf("unexpected translation note")
	}

	turns := historyOf(t, st, model.ConversationKey{SessionID: "s1", Instruction: "inst"})
	if len(turns) != 2 {
		t.Fatalf("history length = %d, want 2", len(turns))
	}
	if turns[0].Role != model.RoleUser || turns[0].Content != "Hello-in-eng" {
		t.Fatalf("user turn = %+v", turns[0])
	}
	if turns[1].Role != model.RoleAssistant || turns[1].Content != "HELLO-IN-ENG" {
		t.Fatalf("assistant turn = %+v", turns[1])
	}
}

func TestConverseInputTranslationFailureSkipsChat(t *testing.T) {
	tr := newFakeTranslator()
	tr.failOn["ach->eng"] = &domain.ServiceUnavailableError{Service: "translation", Cause: errors.New("down")}
	chat := &fakeChat{}
	uc, st := newUC(t, tr, chat)

	_, err := uc.Converse(context.Background(), ConverseInput{
		Message: "Hello", SourceLang: "ach", TargetLang: "eng",
		Instruction: "inst", SessionID: "s1",
	})
	var stage *domain.StageError
	if !errors.As(err, &stage) || stage.Stage != domain.StageTranslateIn {
		t.Fatalf("err = %v, want stage %s", err, domain.StageTranslateIn)
	}
	if chat.calls != 0 {
		t.Fatalf("chat called %d times after input translation failure, want 0", chat.calls)
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Fatalf("store holds %d conversations, want 0", n)
	}
}

func TestConverseChatFailureCommitsNoTurns(t *testing.T) {
	tr := newFakeTranslator()
	chat := &fakeChat{}
	uc, st := newUC(t, tr, chat)
	key := model.ConversationKey{SessionID: "s1", Instruction: "inst"}

	if _, err := uc.Converse(context.Background(), ConverseInput{
		Message: "first", Instruction: "inst", SessionID: "s1",
	}); err != nil {
		t.Fatalf("first converse: %v", err)
	}

	chat.err = errors.New("quota exceeded")
	_, err := uc.Converse(context.Background(), ConverseInput{
		Message: "second", Instruction: "inst", SessionID: "s1",
	})
	var stage *domain.StageError
	if !errors.As(err, &stage) || stage.Stage != domain.StageChat {
		t.Fatalf("err = %v, want stage %s", err, domain.StageChat)
	}

	turns := historyOf(t, st, key)
	if len(turns) != 2 {
		t.Fatalf("history length = %d after failed call, want 2 (no dangling user turn)", len(turns))
	}
}

func TestConverseOutputTranslationFailureReturnsNote(t *testing.T) {
	tr := newFakeTranslator()
	tr.failOn["eng->lug"] = &domain.ServiceUnavailableError{Service: "translation", Cause: errors.New("down")}
	chat := &fakeChat{reply: func(string) string { return "english reply" }}
	uc, _ := newUC(t, tr, chat)

	res, err := uc.Converse(context.Background(), ConverseInput{
		Message: "Hello", SourceLang: "eng", TargetLang: "lug",
		Instruction: "inst", SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("converse: %v (output translation failure must not be fatal)", err)
	}
	if !res.TranslationNote {
		t.Fatalf("expected translation note flag")
	}
	if !strings.HasPrefix(res.Reply, "english reply") || !strings.Contains(res.Reply, "Note:") {
		t.Fatalf("reply = %q, want pivot reply with appended note", res.Reply)
	}
}

func TestConverseSequentialContinuity(t *testing.T) {
	tr := newFakeTranslator()
	chat := &fakeChat{}
	uc, _ := newUC(t, tr, chat)

	in := ConverseInput{Message: "one", Instruction: "inst", SessionID: "s1"}
	if _, err := uc.Converse(context.Background(), in); err != nil {
		t.Fatalf("first: %v", err)
	}
	in.Message = "two"
	if _, err := uc.Converse(context.Background(), in); err != nil {
		t.Fatalf("second: %v", err)
	}

	if len(chat.histories) != 2 {
		t.Fatalf("chat calls = %d, want 2", len(chat.histories))
	}
	if len(chat.histories[0]) != 0 {
		t.Fatalf("first call history = %d, want 0", len(chat.histories[0]))
	}
	second := chat.histories[1]
	if len(second) != 2 || second[0].Content != "one" || second[1].Content != "ok" {
		t.Fatalf("second call history = %+v, want first exchange", second)
	}
}

func TestConverseInstructionScopesHistory(t *testing.T) {
	tr := newFakeTranslator()
	chat := &fakeChat{}
	uc, st := newUC(t, tr, chat)

	if _, err := uc.Converse(context.Background(), ConverseInput{
		Message: "one", Instruction: "be formal", SessionID: "s1",
	}); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := uc.Converse(context.Background(), ConverseInput{
		Message: "two", Instruction: "be casual", SessionID: "s1",
	}); err != nil {
		t.Fatalf("second: %v", err)
	}

	formal := historyOf(t, st, model.ConversationKey{SessionID: "s1", Instruction: "be formal"})
	casual := historyOf(t, st, model.ConversationKey{SessionID: "s1", Instruction: "be casual"})
	if len(formal) != 2 || len(casual) != 2 {
		t.Fatalf("history lengths = %d/%d, want 2/2", len(formal), len(casual))
	}
	if formal[0].Content == casual[0].Content {
		t.Fatalf("histories cross-contaminated")
	}
	if len(chat.histories[1]) != 0 {
		t.Fatalf("new instruction saw %d turns of history, want 0", len(chat.histories[1]))
	}
}

func TestConverseRejectsMissingInput(t *testing.T) {
	tr := newFakeTranslator()
	chat := &fakeChat{}
	uc, _ := newUC(t, tr, chat)

	if _, err := uc.Converse(context.Background(), ConverseInput{Message: "hi"}); !errors.Is(err, domain.ErrSessionMissing) {
		t.Fatalf("err = %v, want ErrSessionMissing", err)
	}
	if _, err := uc.Converse(context.Background(), ConverseInput{SessionID: "s1"}); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if tr.callCount() != 0 || chat.calls != 0 {
		t.Fatalf("backends touched on invalid input")
	}
}
