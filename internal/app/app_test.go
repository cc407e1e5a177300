// internal/app/app_test.go
package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-concierge/internal/catalog"
	"trip-concierge/internal/common/config"
	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/models"
	specialist "trip-concierge/internal/workers/agents/specialist-agent"
	weatherchat "trip-concierge/internal/workers/agents/weather-chat"
)

// scriptedModel answers each prompt family with a fixed reply.
type scriptedModel struct {
	mu       sync.Mutex
	category string
	chat     string
	prompts  []string
}

func (m *scriptedModel) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var system string
	for _, msg := range req.Messages {
		if msg.Role == llm.RoleSystem {
			system = msg.Content
		}
	}
	prompt := llm.LastUserMessage(req)
	m.prompts = append(m.prompts, prompt)

	switch {
	case system != "":
		return m.chat, nil
	case strings.Contains(prompt, "requiresMultiStop"):
		return `{"requiresMultiStop": false}`, nil
	case strings.Contains(prompt, "requiresMultiAgent"):
		return `{"requiresMultiAgent": false}`, nil
	default:
		return m.category, nil
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{TurnTimeout: 5000},
		LLM:    config.LLMConfig{Timeout: 2000, MaxOutputTokens: 256},
		Planning: config.PlanningConfig{
			TriggerPurposes:      []string{"meeting", "interview", "event"},
			DefaultStartLocation: "JFK Airport",
		},
		Memory: config.MemoryConfig{Backend: "lru", MaxConversations: 10, MaxTurns: 5, TTL: 60000},
		Agents: config.AgentsConfig{
			Shopper: config.AgentConfig{Name: "shopper", AssistantID: "asst_shop", MaxRetries: 1, PollInterval: 5, MaxWait: 2000, Timeout: 1000},
			Taxi:    config.AgentConfig{Name: "taxi", AssistantID: "asst_taxi", MaxRetries: 1, PollInterval: 5, MaxWait: 2000, Timeout: 1000},
		},
	}
}

func TestAssemble_DefaultsToWeatherChat(t *testing.T) {
	model := &scriptedModel{category: "weather", chat: `{"contentType":"Text","content":"Sunny and 72F."}`}
	d := Assemble(testConfig(), Deps{Provider: model, Catalog: catalog.Static()}, logger.NewTestLogger(t))

	reply, err := d.Handle(context.Background(), models.InboundMessage{ConversationID: "c-1", Text: "weather in Boston?"})
	require.NoError(t, err)

	assert.Equal(t, models.RouteWeather, reply.Route)
	assert.Equal(t, "Sunny and 72F.", reply.Text)
	// journey extraction, query extraction, classification, chat
	assert.Len(t, model.prompts, 4)
}

func TestAssemble_TaxiGoesThroughGateway(t *testing.T) {
	var (
		mu     sync.Mutex
		posted string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"thread_1"}`))
	})
	mux.HandleFunc("POST /threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		posted = string(body)
		mu.Unlock()
		w.Write([]byte(`{"id":"msg_1"}`))
	})
	mux.HandleFunc("POST /threads/thread_1/runs", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"run_1","status":"completed"}`))
	})
	mux.HandleFunc("GET /threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"role":"assistant","content":[{"type":"text","text":{"value":"About $52, 35 minutes."}}]}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.Agents.Taxi.BaseURL = srv.URL

	model := &scriptedModel{category: "taxi"}
	d := Assemble(cfg, Deps{Provider: model, Catalog: catalog.Static()}, logger.NewTestLogger(t))

	reply, err := d.Handle(context.Background(), models.InboundMessage{ConversationID: "c-1", Text: "cab from JFK to Times Square?"})
	require.NoError(t, err)

	assert.Equal(t, models.RouteTaxi, reply.Route)
	assert.Equal(t, "About $52, 35 minutes.", reply.Text)
	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, posted, "LocationID 136")
}

func TestSpecialistAgent_CacheOnlyWithRedisAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ac := config.AgentConfig{Name: "taxi", CacheTTL: 60000}

	_, cached := specialistAgent(ac, rdb, logger.NewNoOpLogger()).(*specialist.CachedAgent)
	assert.True(t, cached)

	_, cached = specialistAgent(ac, nil, logger.NewNoOpLogger()).(*specialist.CachedAgent)
	assert.False(t, cached)

	ac.CacheTTL = 0
	_, plain := specialistAgent(ac, rdb, logger.NewNoOpLogger()).(*specialist.Handler)
	assert.True(t, plain)
}

func TestConversationMemory_Backend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	mc := config.MemoryConfig{Backend: "redis", MaxConversations: 10, MaxTurns: 5, TTL: 60000}
	assert.IsType(t, &weatherchat.RedisMemory{}, conversationMemory(mc, rdb))

	mc.Backend = "lru"
	assert.IsType(t, &weatherchat.LRUMemory{}, conversationMemory(mc, rdb))
}

func TestNeedsRedis(t *testing.T) {
	cfg := testConfig()
	assert.False(t, needsRedis(cfg))

	cfg.Agents.Shopper.CacheTTL = 1000
	assert.True(t, needsRedis(cfg))

	cfg = testConfig()
	cfg.Memory.Backend = "redis"
	assert.True(t, needsRedis(cfg))
}
