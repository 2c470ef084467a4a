package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// DerivedState is the small mutable record kept next to a conversation's
// message log.
type DerivedState struct {
	LastPlanSummary string `json:"last_plan_summary,omitempty"`
}

// ConversationStore is the conversation memory contract. Messages are
// append-only and strictly ordered by arrival; implementations evict the
// oldest entries once MaxMessages is exceeded and must serialize
// read-modify-append sequences per conversation ID.
type ConversationStore interface {
	// Append adds a message to the conversation, creating the
	// conversation on first reference.
	Append(ctx context.Context, conversationID string, message *schema.Message) error

	// History returns the ordered message log in provider wire format.
	History(ctx context.Context, conversationID string) ([]*schema.Message, error)

	// Derived returns the derived state for the conversation. A
	// conversation that was never written returns the zero value.
	Derived(ctx context.Context, conversationID string) (DerivedState, error)

	// SetDerived replaces the derived state for the conversation.
	SetDerived(ctx context.Context, conversationID string, state DerivedState) error

	// MessageCount returns the number of retained messages.
	MessageCount(ctx context.Context, conversationID string) (int, error)
}

// ChatInput is the inbound request handed to the agent core.
type ChatInput struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}
