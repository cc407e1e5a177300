// internal/workers/agents/specialist-agent/cache.go
package specialistagent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/metrics"
)

// CachedAgent serves repeated questions from Redis. Only real answers are
// stored; apologies and empty replies always go back to the service. Cache
// failures are logged and bypassed.
type CachedAgent struct {
	next   *Handler
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedAgent(next *Handler, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedAgent {
	return &CachedAgent{
		next:  next,
		redis: rdb,
		ttl:   ttl,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"agent":    next.Name(),
			"cache":    "redis",
		}),
	}
}

func (c *CachedAgent) Name() string {
	return c.next.Name()
}

func (c *CachedAgent) Query(ctx context.Context, text string) (string, error) {
	key := CacheKey(c.next.Name(), text)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.AgentCalls.WithLabelValues(c.next.Name(), "cache_hit").Inc()
		c.logger.Debug("agent cache hit", map[string]interface{}{"key": key})
		return val, nil
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("agent cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	out, err := c.next.Execute(ctx, &Input{Query: text})
	if err != nil {
		return "", err
	}

	if out.Answered {
		if err := c.redis.Set(ctx, key, out.Reply, c.ttl).Err(); err != nil {
			c.logger.Warn("agent cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return out.Reply, nil
}

// CacheKey is agent:<name>:<sha256 of the trimmed query>.
func CacheKey(agent, query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(query)))
	return fmt.Sprintf("agent:%s:%s", agent, hex.EncodeToString(sum[:]))
}
