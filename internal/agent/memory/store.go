package memory

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
)

const defaultMaxMessages = 50

// Store is the in-process conversation memory. Conversations are created
// on first reference and live for the process lifetime; the message log
// is capped and evicts oldest-first. All operations for a conversation
// are serialized by its own mutex so concurrent requests for the same
// key cannot interleave read-modify-append sequences.
type Store struct {
	maxMessages int

	mu    sync.Mutex
	convs map[string]*conversation
}

type conversation struct {
	mu       sync.Mutex
	messages []*schema.Message
	derived  model.DerivedState
}

// NewStore creates an in-memory store. maxMessages <= 0 falls back to
// the default cap.
func NewStore(maxMessages int) *Store {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	return &Store{
		maxMessages: maxMessages,
		convs:       make(map[string]*conversation),
	}
}

func (s *Store) conversation(id string) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		c = &conversation{}
		s.convs[id] = c
	}
	return c
}

func (s *Store) Append(ctx context.Context, conversationID string, message *schema.Message) error {
	c := s.conversation(conversationID)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, message)
	if over := len(c.messages) - s.maxMessages; over > 0 {
		c.messages = append([]*schema.Message(nil), c.messages[over:]...)
	}
	return nil
}

func (s *Store) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	c := s.conversation(conversationID)
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*schema.Message, len(c.messages))
	copy(out, c.messages)
	return out, nil
}

func (s *Store) Derived(ctx context.Context, conversationID string) (model.DerivedState, error) {
	c := s.conversation(conversationID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.derived, nil
}

func (s *Store) SetDerived(ctx context.Context, conversationID string, state model.DerivedState) error {
	c := s.conversation(conversationID)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.derived = state
	return nil
}

func (s *Store) MessageCount(ctx context.Context, conversationID string) (int, error) {
	c := s.conversation(conversationID)
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages), nil
}

var _ model.ConversationStore = (*Store)(nil)
