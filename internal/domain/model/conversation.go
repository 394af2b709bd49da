package model

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationKey identifies a conversation by the exact
// (session id, system instruction) pair. The instruction is part of the key
// on purpose: changing it starts a fresh conversation. No normalization is
// applied, so trailing whitespace yields a distinct key.
type ConversationKey struct {
	SessionID   string `json:"session_id"`
	Instruction string `json:"instruction"`
}

func (k ConversationKey) String() string {
	return k.SessionID + "_" + k.Instruction
}

// Turn is one message exchanged with the chat model. Turn content is always
// in the pivot language.
type Turn struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the aggregate for one running chat: a key, the fixed
// system instruction, and the ordered turn history.
type Conversation struct {
	Key       ConversationKey `json:"key"`
	Turns     []Turn          `json:"turns"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewConversation(key ConversationKey) *Conversation {
	now := time.Now()
	return &Conversation{
		Key:       key,
		Turns:     make([]Turn, 0, 8),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddExchange appends a completed user/assistant pair. Turns are committed
// together so a failed model call never leaves a dangling user turn.
func (c *Conversation) AddExchange(userText, reply string) {
	now := time.Now()
	c.Turns = append(c.Turns,
		Turn{Role: RoleUser, Content: userText, Timestamp: now},
		Turn{Role: RoleAssistant, Content: reply, Timestamp: now},
	)
	c.UpdatedAt = now
}

// History returns a copy of the turns so callers cannot mutate the
// conversation outside the store's lock.
func (c *Conversation) History() []Turn {
	out := make([]Turn, len(c.Turns))
	copy(out, c.Turns)
	return out
}

func (c *Conversation) Len() int { return len(c.Turns) }

// IdleFor reports how long the conversation has been unused.
func (c *Conversation) IdleFor(now time.Time) time.Duration {
	return now.Sub(c.UpdatedAt)
}
