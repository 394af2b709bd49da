package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
	"github.com/JUDEBARNABAS/atim/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ChatModel = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements the chat port against any OpenAI-compatible
// Chat Completions gateway. The system instruction travels as the leading
// "system" message. When the gateway omits usage figures, prompt tokens are
// estimated locally with tiktoken so the usage metrics stay populated.
type OpenAIAdapter struct {
	apiKey  string
	base    string // e.g., https://api.openai.com/v1
	model   string
	client  *http.Client
	encoder *tiktoken.Tiktoken
}

func NewOpenAIAdapter(apiKey, base, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	// cl100k_base covers the chat model families this adapter targets;
	// counting is best-effort anyway.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		enc = nil
	}
	return &OpenAIAdapter{
		apiKey:  apiKey,
		base:    strings.TrimRight(base, "/"),
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		encoder: enc,
	}, nil
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) Chat(ctx context.Context, instruction string, history []adapter.Message, userText string) (string, error) {
	start := time.Now()
	text, err := o.chatCore(ctx, instruction, history, userText)
	metrics.ObserveChatCall(o.Name(), time.Since(start), err)
	if err != nil {
		return "", &domain.ChatError{Cause: err}
	}
	return text, nil
}

func (o *OpenAIAdapter) chatCore(ctx context.Context, instruction string, history []adapter.Message, userText string) (string, error) {
	messages := make([]adapter.Message, 0, len(history)+2)
	if instruction != "" {
		messages = append(messages, adapter.Message{Role: "system", Content: instruction})
	}
	messages = append(messages, history...)
	messages = append(messages, adapter.Message{Role: "user", Content: userText})

	reqBody := struct {
		Model    string            `json:"model"`
		Messages []adapter.Message `json:"messages"`
	}{Model: o.model, Messages: messages}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var payload struct {
		Choices []struct {
			Message adapter.Message `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			in, out := payload.Usage.PromptTokens, payload.Usage.CompletionTokens
			if in == 0 {
				in = o.countTokens(messages)
			}
			if out == 0 {
				out = o.countText(c.Message.Content)
			}
			metrics.AddChatTokens(o.Name(), in, out)
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}

func (o *OpenAIAdapter) countTokens(messages []adapter.Message) int {
	if o.encoder == nil {
		return 0
	}
	total := 0
	for _, m := range messages {
		total += len(o.encoder.Encode(m.Content, nil, nil))
	}
	return total
}

func (o *OpenAIAdapter) countText(text string) int {
	if o.encoder == nil {
		return 0
	}
	return len(o.encoder.Encode(text, nil, nil))
}
