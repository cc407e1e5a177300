// internal/workers/routing/classify-intent/handler_test.go
package classifyintent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/models"
)

// ==========================
// Test Logger Implementation
// ==========================

// TestLogger implements the Logger interface for testing
type TestLogger struct {
	t      *testing.T
	fields map[string]interface{}
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{
		t:      t,
		fields: make(map[string]interface{}),
	}
}

func (l *TestLogger) Debug(msg string, fields map[string]interface{}) {
	l.t.Logf("DEBUG: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, l.mergeFields(fields))
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	return &TestLogger{
		t:      l.t,
		fields: l.mergeFields(fields),
	}
}

func (l *TestLogger) mergeFields(fields map[string]interface{}) map[string]interface{} {
	allFields := make(map[string]interface{})
	for k, v := range l.fields {
		allFields[k] = v
	}
	for k, v := range fields {
		allFields[k] = v
	}
	return allFields
}

// BenchmarkLogger is a minimal logger for benchmarks
type BenchmarkLogger struct{}

func (b *BenchmarkLogger) Debug(msg string, fields map[string]interface{}) {}
func (b *BenchmarkLogger) Info(msg string, fields map[string]interface{})  {}
func (b *BenchmarkLogger) Warn(msg string, fields map[string]interface{})  {}
func (b *BenchmarkLogger) With(fields map[string]interface{}) Logger       { return b }

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func answering(answer string) llm.Provider {
	return llm.ProviderFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return answer, nil
	})
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Classify(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		want      models.AgentType
		defaulted bool
	}{
		{"weather", "weather", models.AgentWeather, false},
		{"shopper", "shopper", models.AgentShopper, false},
		{"taxi", "taxi", models.AgentTaxi, false},
		{"upper case with punctuation", "  TAXI.\n", models.AgentTaxi, false},
		{"quoted", `"shopper"`, models.AgentShopper, false},
		{"weather wins when several match", "weather or taxi", models.AgentWeather, false},
		{"shopper before taxi", "taxi? no, shopper", models.AgentShopper, false},
		{"unrecognised", "I am not sure", models.AgentWeather, true},
		{"empty", "", models.AgentWeather, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), answering(tt.answer), NewTestLogger(t))

			out := h.Execute(context.Background(), &Input{Message: "anything"})
			assert.Equal(t, tt.want, out.Agent)
			assert.Equal(t, tt.defaulted, out.Defaulted)
		})
	}
}

func TestHandler_Classify_ProviderError(t *testing.T) {
	failing := llm.ProviderFunc(func(ctx context.Context, req llm.Request) (string, error) {
		return "", errors.New("connection reset")
	})
	h := NewHandler(createTestConfig(), failing, NewTestLogger(t))

	assert.Equal(t, models.AgentWeather, h.Classify(context.Background(), "book me a cab"))
}

func TestHandler_Classify_PromptCarriesMessage(t *testing.T) {
	var seen llm.Request
	provider := llm.ProviderFunc(func(ctx context.Context, req llm.Request) (string, error) {
		seen = req
		return "taxi", nil
	})
	h := NewHandler(createTestConfig(), provider, NewTestLogger(t))

	got := h.Classify(context.Background(), "How much is a cab from JFK to Times Square?")
	assert.Equal(t, models.AgentTaxi, got)

	require.Len(t, seen.Messages, 1)
	prompt := seen.Messages[0].Content
	assert.Contains(t, prompt, `User message: "How much is a cab from JFK to Times Square?"`)
	assert.True(t, strings.HasSuffix(prompt, `either "weather", "shopper", or "taxi"`))
	require.NotNil(t, seen.Temperature)
	assert.Zero(t, *seen.Temperature)
}

func TestHandler_Classify_Timeout(t *testing.T) {
	slow := llm.ProviderFunc(func(ctx context.Context, req llm.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	cfg := createTestConfig()
	cfg.Timeout = 10 * time.Millisecond
	h := NewHandler(cfg, slow, NewTestLogger(t))

	out := h.Execute(context.Background(), &Input{Message: "rain tomorrow?"})
	assert.Equal(t, models.AgentWeather, out.Agent)
	assert.True(t, out.Defaulted)
}

func TestMatchCategory(t *testing.T) {
	agent, ok := MatchCategory("Shopper")
	assert.True(t, ok)
	assert.Equal(t, models.AgentShopper, agent)

	_, ok = MatchCategory("restaurant")
	assert.False(t, ok)
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_Classify(b *testing.B) {
	h := NewHandler(createTestConfig(), answering("taxi"), &BenchmarkLogger{})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Classify(ctx, "cab to LGA")
	}
}

func TestHandler_Classify_DefaultCarriesCode(t *testing.T) {
	h := NewHandler(createTestConfig(), answering("restaurant"), NewTestLogger(t))

	result, raw := h.classify(context.Background(), "where should I eat")
	assert.True(t, result.Defaulted)
	assert.Equal(t, "restaurant", raw)
	assert.ErrorIs(t, result.Err, ErrNoCategoryInAnswer)
	assert.True(t, apperrors.HasCode(result.Err, apperrors.ErrCodeClassificationFailed))
}
