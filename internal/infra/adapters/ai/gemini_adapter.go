package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/JUDEBARNABAS/atim/internal/domain"
	"github.com/JUDEBARNABAS/atim/internal/domain/ports/adapter"
	"github.com/JUDEBARNABAS/atim/internal/infra/metrics"
)

var _ adapter.ChatModel = (*GeminiAdapter)(nil)

// GeminiAdapter implements the chat port using the official Gemini SDK.
// The system instruction is supplied per conversation through the chat
// config; history is replayed on every call since conversations live in
// the store, not in the SDK.
type GeminiAdapter struct {
	client *genai.Client
	model  string
	maxOut int
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, maxOut int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, maxOut: maxOut}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) Chat(ctx context.Context, instruction string, history []adapter.Message, userText string) (string, error) {
	start := time.Now()
	text, err := g.chatCore(ctx, instruction, history, userText)
	metrics.ObserveChatCall(g.Name(), time.Since(start), err)
	if err != nil {
		return "", &domain.ChatError{Cause: err}
	}
	return text, nil
}

func (g *GeminiAdapter) chatCore(ctx context.Context, instruction string, history []adapter.Message, userText string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxOut),
	}
	if instruction != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		}
	}

	chat, err := g.client.Chats.Create(ctx, g.model, cfg, toGenAIHistory(history))
	if err != nil {
		return "", err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: userText})
	if err != nil {
		return "", err
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return "", errors.New("gemini: empty candidate text")
	}
	if resp.UsageMetadata != nil {
		metrics.AddChatTokens(g.Name(),
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
	}
	return text, nil
}

func toGenAIHistory(msgs []adapter.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "assistant", "model":
			role = genai.RoleModel
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return out
}
