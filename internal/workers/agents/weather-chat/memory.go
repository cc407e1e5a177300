// internal/workers/agents/weather-chat/memory.go
package weatherchat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/common/llm"
)

// Memory keeps the recent exchange of each conversation.
type Memory interface {
	History(ctx context.Context, conversationID string) ([]llm.Message, error)
	Append(ctx context.Context, conversationID string, msgs ...llm.Message) error
}

// ==========================
// In-process memory
// ==========================

// LRUMemory holds up to size conversations in process; idle ones expire after ttl.
type LRUMemory struct {
	mu       sync.Mutex
	cache    *expirable.LRU[string, []llm.Message]
	maxTurns int
}

func NewLRUMemory(size, maxTurns int, ttl time.Duration) *LRUMemory {
	return &LRUMemory{
		cache:    expirable.NewLRU[string, []llm.Message](size, nil, ttl),
		maxTurns: maxTurns,
	}
}

func (m *LRUMemory) History(_ context.Context, conversationID string) ([]llm.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs, _ := m.cache.Get(conversationID)
	return append([]llm.Message(nil), msgs...), nil
}

func (m *LRUMemory) Append(_ context.Context, conversationID string, msgs ...llm.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, _ := m.cache.Get(conversationID)
	next := make([]llm.Message, 0, len(prev)+len(msgs))
	next = append(next, prev...)
	next = append(next, msgs...)
	m.cache.Add(conversationID, keepLast(next, m.maxTurns*2))
	return nil
}

// ==========================
// Redis memory
// ==========================

// RedisMemory keeps each conversation in a capped list that expires ttl after the last turn.
type RedisMemory struct {
	rdb      redis.Cmdable
	maxTurns int
	ttl      time.Duration
}

func NewRedisMemory(rdb redis.Cmdable, maxTurns int, ttl time.Duration) *RedisMemory {
	return &RedisMemory{rdb: rdb, maxTurns: maxTurns, ttl: ttl}
}

func memoryKey(conversationID string) string {
	return "chat:" + conversationID
}

func (m *RedisMemory) History(ctx context.Context, conversationID string) ([]llm.Message, error) {
	items, err := m.rdb.LRange(ctx, memoryKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, apperrors.NewMemoryStoreFailedError(err)
	}

	msgs := make([]llm.Message, 0, len(items))
	for _, item := range items {
		var msg llm.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, apperrors.NewMemoryStoreFailedError(fmt.Errorf("decode entry: %w", err))
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (m *RedisMemory) Append(ctx context.Context, conversationID string, msgs ...llm.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return apperrors.NewMemoryStoreFailedError(err)
		}
		values = append(values, data)
	}

	key := memoryKey(conversationID)
	_, err := m.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if m.maxTurns > 0 {
			pipe.LTrim(ctx, key, int64(-m.maxTurns*2), -1)
		}
		if m.ttl > 0 {
			pipe.Expire(ctx, key, m.ttl)
		}
		return nil
	})
	if err != nil {
		return apperrors.NewMemoryStoreFailedError(err)
	}
	return nil
}

func keepLast(msgs []llm.Message, n int) []llm.Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
