package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatModel is the port for LLM chat. History and userText are always in
// the pivot language; the instruction conditions the whole conversation and
// is fixed per conversation.
type ChatModel interface {
	// Chat returns only the assistant text.
	Chat(ctx context.Context, instruction string, history []Message, userText string) (string, error)

	// Name identifies the provider for logging and metrics labels.
	Name() string
}
