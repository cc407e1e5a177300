// internal/workers/routing/classify-intent/handler.go
package classifyintent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/common/fallback"
	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/common/metrics"
	"trip-concierge/internal/models"
)

const (
	TaskType = "classify-intent"
)

var (
	ErrClassificationFailed = errors.New("CLASSIFICATION_FAILED")
	ErrNoCategoryInAnswer   = errors.New("NO_CATEGORY_IN_ANSWER")
)

const routingPrompt = `You are a routing assistant. Analyze the user's message and determine which agent should handle it.

Available agents:
- "weather": For weather forecasts, temperature, climate conditions, weather-related questions
- "shopper": For shopping, products, purchases, recommendations, stores, online shopping
- "taxi": For taxi services, cab booking, ride requests, transportation, taxi queries, fare information

User message: "%s"

Respond with ONLY ONE WORD: either "weather", "shopper", or "taxi"`

// checked in this order; the first substring hit wins
var categories = []models.AgentType{
	models.AgentWeather,
	models.AgentShopper,
	models.AgentTaxi,
}

// Logger interface definition
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Handler struct {
	config   *Config
	provider llm.Provider
	logger   Logger
}

func NewHandler(config *Config, provider llm.Provider, log Logger) *Handler {
	return &Handler{
		config:   config,
		provider: provider,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Classify picks the agent for a message. It never fails: model errors and
// unrecognised answers resolve to the default agent.
func (h *Handler) Classify(ctx context.Context, message string) models.AgentType {
	out := h.Execute(ctx, &Input{Message: message})
	return out.Agent
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	result, raw := h.classify(ctx, input.Message)
	if result.Defaulted {
		metrics.FallbacksTotal.WithLabelValues(string(fallback.KindIntent)).Inc()
		h.logger.Warn("intent defaulted", map[string]interface{}{
			"agent": string(result.Value),
			"error": result.Err.Error(),
		})
	} else {
		h.logger.Info("intent classified", map[string]interface{}{
			"agent": string(result.Value),
		})
	}

	return &Output{
		Agent:     result.Value,
		RawAnswer: raw,
		Defaulted: result.Defaulted,
	}
}

func (h *Handler) classify(ctx context.Context, message string) (fallback.Result[models.AgentType], string) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	answer, err := llm.Ask(ctx, h.provider, fmt.Sprintf(routingPrompt, message))
	if err != nil {
		return fallback.Agent(apperrors.NewClassificationFailedError(fmt.Errorf("%w: %v", ErrClassificationFailed, err))), ""
	}

	h.logger.Debug("routing answer", map[string]interface{}{
		"answer": answer,
	})

	if agent, ok := MatchCategory(answer); ok {
		return fallback.Ok(agent), answer
	}
	return fallback.Agent(apperrors.NewClassificationFailedError(fmt.Errorf("%w: %q", ErrNoCategoryInAnswer, answer))), answer
}

// MatchCategory does the lenient, case-insensitive substring match used on
// the model's one-word answer.
func MatchCategory(answer string) (models.AgentType, bool) {
	lower := strings.ToLower(strings.TrimSpace(answer))
	for _, c := range categories {
		if strings.Contains(lower, string(c)) {
			return c, true
		}
	}
	return "", false
}
