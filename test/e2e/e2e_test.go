// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
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

	"trip-concierge/internal/app"
	"trip-concierge/internal/catalog"
	"trip-concierge/internal/common/config"
	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/server"
)

// ==========================
// Fake language model (Responses API)
// ==========================

type modelScript struct {
	journey  string
	query    string
	category string
	chat     string

	// weatherCall, when set, is sent as a get_weather function call before
	// the chat answer. Tool outputs the model receives go to toolOutputs.
	weatherCall string
	toolOutputs chan string
}

func responseBody(text string) string {
	body := map[string]interface{}{
		"id":         "resp_e2e",
		"object":     "response",
		"created_at": 1700000000,
		"model":      "gpt-4o-mini",
		"status":     "completed",
		"output": []interface{}{
			map[string]interface{}{
				"type":   "message",
				"id":     "msg_e2e",
				"status": "completed",
				"role":   "assistant",
				"content": []interface{}{
					map[string]interface{}{"type": "output_text", "text": text, "annotations": []interface{}{}},
				},
			},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func functionCallBody(callID, name, args string) string {
	body := map[string]interface{}{
		"id":         "resp_e2e_tool",
		"object":     "response",
		"created_at": 1700000000,
		"model":      "gpt-4o-mini",
		"status":     "completed",
		"output": []interface{}{
			map[string]interface{}{
				"type":      "function_call",
				"id":        "fc_e2e",
				"call_id":   callID,
				"name":      name,
				"arguments": args,
				"status":    "completed",
			},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

// toolOutputsIn returns the function_call_output items of a Responses request.
func toolOutputsIn(raw []byte) []string {
	var req struct {
		Input []struct {
			Type   string `json:"type"`
			Output string `json:"output"`
		} `json:"input"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil
	}
	var out []string
	for _, item := range req.Input {
		if item.Type == "function_call_output" {
			out = append(out, item.Output)
		}
	}
	return out
}

func newModelServer(t *testing.T, script modelScript) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body := string(raw)

		var answer string
		switch {
		case strings.Contains(body, "requiresMultiStop"):
			answer = script.journey
		case strings.Contains(body, "requiresMultiAgent"):
			answer = script.query
		case strings.Contains(body, "routing assistant"):
			answer = script.category
		default:
			outputs := toolOutputsIn(raw)
			if script.weatherCall != "" && len(outputs) == 0 {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(functionCallBody("call_weather", "get_weather", script.weatherCall)))
				return
			}
			for _, o := range outputs {
				if script.toolOutputs != nil {
					script.toolOutputs <- o
				}
			}
			answer = script.chat
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responseBody(answer)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ==========================
// Fake agent-execution service
// ==========================

type agentService struct {
	mu      sync.Mutex
	next    int
	asked   map[string]string // thread -> user content
	agentOf map[string]string // thread -> assistant id
	replies map[string]string // assistant id -> answer
}

func newAgentService(t *testing.T, replies map[string]string) (*agentService, *httptest.Server) {
	s := &agentService{
		asked:   make(map[string]string),
		agentOf: make(map[string]string),
		replies: replies,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.next++
		id := fmt.Sprintf("thread_%d", s.next)
		s.mu.Unlock()
		fmt.Fprintf(w, `{"id":%q}`, id)
	})
	mux.HandleFunc("POST /threads/{thread}/messages", func(w http.ResponseWriter, r *http.Request) {
		var msg struct {
			Content string `json:"content"`
		}
		json.NewDecoder(r.Body).Decode(&msg)
		s.mu.Lock()
		s.asked[r.PathValue("thread")] = msg.Content
		s.mu.Unlock()
		w.Write([]byte(`{"id":"msg_1"}`))
	})
	mux.HandleFunc("POST /threads/{thread}/runs", func(w http.ResponseWriter, r *http.Request) {
		var run struct {
			AssistantID string `json:"assistant_id"`
		}
		json.NewDecoder(r.Body).Decode(&run)
		s.mu.Lock()
		s.agentOf[r.PathValue("thread")] = run.AssistantID
		s.mu.Unlock()
		w.Write([]byte(`{"id":"run_1","status":"queued"}`))
	})
	mux.HandleFunc("GET /threads/{thread}/runs/{run}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"run_1","status":"completed"}`))
	})
	mux.HandleFunc("GET /threads/{thread}/messages", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		answer := s.replies[s.agentOf[r.PathValue("thread")]]
		s.mu.Unlock()
		out, _ := json.Marshal(map[string]interface{}{
			"data": []interface{}{
				map[string]interface{}{
					"id":   "msg_2",
					"role": "assistant",
					"content": []interface{}{
						map[string]interface{}{"type": "text", "text": map[string]string{"value": answer}},
					},
				},
			},
		})
		w.Write(out)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *agentService) questionsFor(assistantID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for thread, agent := range s.agentOf {
		if agent == assistantID {
			out = append(out, s.asked[thread])
		}
	}
	return out
}

// ==========================
// Stack
// ==========================

func e2eConfig(modelURL, agentURL string) *config.Config {
	agent := func(name, assistant string) config.AgentConfig {
		return config.AgentConfig{
			Name:           name,
			BaseURL:        agentURL,
			APIKey:         "agent-key",
			AssistantID:    assistant,
			PollInterval:   5,
			MaxWait:        5000,
			MaxRetries:     1,
			Timeout:        2000,
			FailureMessage: "Sorry, I encountered an error processing your " + name + " request.",
		}
	}
	return &config.Config{
		App:    config.AppConfig{Name: "trip-concierge-e2e"},
		Server: config.ServerConfig{TurnTimeout: 20000},
		LLM: config.LLMConfig{
			BaseURL:         modelURL + "/v1/",
			APIKey:          "sk-e2e",
			Model:           "gpt-4o-mini",
			MaxOutputTokens: 512,
			Timeout:         5000,
		},
		Agents: config.AgentsConfig{
			Shopper: agent("shopper", "asst_shopper"),
			Taxi:    agent("taxi", "asst_taxi"),
		},
		Planning: config.PlanningConfig{
			TriggerPurposes:      []string{"meeting", "interview", "event"},
			DefaultStartLocation: "JFK Airport",
		},
		Memory: config.MemoryConfig{Backend: "redis", MaxConversations: 10, MaxTurns: 5, TTL: 60000},
	}
}

func newStack(t *testing.T, cfg *config.Config, rdb redis.Cmdable) http.Handler {
	t.Helper()
	provider, err := llm.NewOpenAIProvider(cfg.LLM, 0)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	d := app.Assemble(cfg, app.Deps{
		Provider: provider,
		Catalog:  catalog.Static(),
		Redis:    rdb,
	}, log)
	return server.New(server.DefaultConfig(), d, nil, log).Handler()
}

func send(t *testing.T, h http.Handler, conversationID, text string) server.Activity {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"conversationId": conversationID, "text": text})
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out server.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ==========================
// Scenarios
// ==========================

func TestE2E_MultiStopJourney(t *testing.T) {
	model := newModelServer(t, modelScript{
		journey: `{"requiresMultiStop": true, "startLocation": "JFK Airport", "mainDestination": "Midtown",
			"date": "tomorrow", "time": "10am", "purpose": "interview", "activities": ["buy a notebook"]}`,
	})
	agents, agentSrv := newAgentService(t, map[string]string{
		"asst_shopper": "Pick up a compact umbrella and a notebook before your interview.",
		"asst_taxi":    "Estimated fare $45.50, 17.2 miles, about 40 minutes.",
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h := newStack(t, e2eConfig(model.URL, agentSrv.URL), rdb)
	out := send(t, h, "conv-journey", "I land at JFK tomorrow and have an interview in Midtown at 10am")

	assert.Equal(t, "journey", string(out.Route))
	assert.Contains(t, out.Text, "Complete Multi-Stop Journey Plan")
	assert.Contains(t, out.Text, "Staples Midtown")
	assert.Contains(t, out.Text, "$45.50")

	require.Len(t, agents.questionsFor("asst_shopper"), 1)
	assert.NotEmpty(t, agents.questionsFor("asst_taxi"))
}

func TestE2E_SingleTaxiQuestion(t *testing.T) {
	model := newModelServer(t, modelScript{
		journey:  `{"requiresMultiStop": false}`,
		query:    `{"requiresMultiAgent": false}`,
		category: "taxi",
	})
	agents, agentSrv := newAgentService(t, map[string]string{
		"asst_taxi": "About $52 and 35 minutes.",
	})

	h := newStack(t, e2eConfig(model.URL, agentSrv.URL), nil)
	out := send(t, h, "conv-taxi", "How much is a cab from JFK to Times Square?")

	assert.Equal(t, "taxi", string(out.Route))
	assert.Equal(t, "About $52 and 35 minutes.", out.Text)

	asked := agents.questionsFor("asst_taxi")
	require.Len(t, asked, 1)
	assert.Contains(t, asked[0], `[Hint: "jfk" is LocationID 136]`)
	assert.Contains(t, asked[0], `[Hint: "times square" is LocationID 236]`)
}

func TestE2E_WeatherChatRemembersConversation(t *testing.T) {
	outputs := make(chan string, 8)
	model := newModelServer(t, modelScript{
		journey:     `{"requiresMultiStop": false}`,
		query:       `{"requiresMultiAgent": false}`,
		category:    "weather",
		chat:        `{"contentType": "AdaptiveCard", "content": {"type": "AdaptiveCard", "version": "1.5", "body": [{"type": "TextBlock", "text": "Sunny, 72F"}]}}`,
		weatherCall: `{"location": "Seattle", "date": "2026-10-19"}`,
		toolOutputs: outputs,
	})
	_, agentSrv := newAgentService(t, nil)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	h := newStack(t, e2eConfig(model.URL, agentSrv.URL), rdb)

	first := send(t, h, "conv-weather", "What's the weather in Seattle?")
	assert.Equal(t, "weather", string(first.Route))
	require.Len(t, first.Attachments, 1)
	assert.Equal(t, "application/vnd.microsoft.card.adaptive", first.Attachments[0].ContentType)
	assert.Contains(t, string(first.Attachments[0].Content), "Sunny, 72F")

	require.Len(t, outputs, 1)
	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(<-outputs), &snap))
	assert.Equal(t, "Seattle", snap["location"])
	assert.Equal(t, "2026-10-19", snap["date"])
	assert.Contains(t, snap, "temperatureF")

	send(t, h, "conv-weather", "And tomorrow?")

	history, err := rdb.LRange(context.Background(), "chat:conv-weather", 0, -1).Result()
	require.NoError(t, err)
	assert.Len(t, history, 4)
}
