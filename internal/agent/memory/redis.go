package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	errx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core/error"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// RedisStore keeps conversation history in a capped Redis list with a
// TTL that is extended on every touch. It honours the same append-only,
// oldest-evicted contract as the in-memory Store; Redis itself
// serializes the RPUSH+LTRIM sequence per key. It offers no durability
// promise beyond the configured TTL.
type RedisStore struct {
	rdb         redis.Cmdable
	ttl         time.Duration
	maxMessages int
}

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration, maxMessages int) *RedisStore {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	return &RedisStore{rdb: rdb, ttl: ttl, maxMessages: maxMessages}
}

func (r *RedisStore) messagesKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:messages", conversationID)
}

func (r *RedisStore) stateKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:state", conversationID)
}

func (r *RedisStore) Append(ctx context.Context, conversationID string, message *schema.Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to marshal message")
		return fmt.Errorf("marshal message: %w", err)
	}
	key := r.messagesKey(conversationID)

	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, b)
	// cap history, oldest evicted first
	pipe.LTrim(ctx, key, int64(-r.maxMessages), -1)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push message to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisStore) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	key := r.messagesKey(conversationID)

	rows, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*schema.Message{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation history from redis")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, s := range rows {
		var m schema.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			logx.Error().Err(err).Str("conversation_id", conversationID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

func (r *RedisStore) Derived(ctx context.Context, conversationID string) (model.DerivedState, error) {
	var state model.DerivedState
	raw, err := r.rdb.Get(ctx, r.stateKey(conversationID)).Result()
	if err != nil {
		if err == redis.Nil {
			return state, nil
		}
		return state, errx.WrapRedis(err)
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return model.DerivedState{}, fmt.Errorf("unmarshal derived state: %w", err)
	}
	return state, nil
}

func (r *RedisStore) SetDerived(ctx context.Context, conversationID string, state model.DerivedState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal derived state: %w", err)
	}
	if err := r.rdb.Set(ctx, r.stateKey(conversationID), b, r.ttl).Err(); err != nil {
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisStore) MessageCount(ctx context.Context, conversationID string) (int, error) {
	n, err := r.rdb.LLen(ctx, r.messagesKey(conversationID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

var _ model.ConversationStore = (*RedisStore)(nil)
