// internal/workers/agents/weather-chat/handler.go
package weatherchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/common/fallback"
	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/metrics"
	"trip-concierge/internal/common/validation"
	"trip-concierge/internal/models"
)

const (
	TaskType = "weather-chat"
)

var ErrCardNotObject = errors.New("CARD_NOT_OBJECT")

const systemPrompt = `You are a friendly assistant that helps people find a weather forecast for a given time and place.
You may ask follow up questions until you have enough information to answer the customer's question,
but once you have a forecast, make sure to format it nicely using an adaptive card.

Respond in JSON format with the following JSON schema, and do not use markdown in the response:

{
    "contentType": "'Text' or 'AdaptiveCard' only",
    "content": "{The content of the response, may be plain text, or JSON based adaptive card}"
}

Today is %s.`

type Handler struct {
	config     *Config
	provider   llm.Provider
	forecaster Forecaster
	memory     Memory
	logger     logger.Logger
	now        func() time.Time
}

// NewHandler builds the chat. The forecast tools are offered to the model
// only when forecaster is set and provider is an llm.ToolProvider.
func NewHandler(config *Config, provider llm.Provider, forecaster Forecaster, memory Memory, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		provider:   provider,
		forecaster: forecaster,
		memory:     memory,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
		now: time.Now,
	}
}

// Reply answers one weather turn. It always produces a reply: provider errors
// become the apology and a malformed envelope is sent as plain text.
func (h *Handler) Reply(ctx context.Context, conversationID, text string) *models.Reply {
	log := h.logger.With(map[string]interface{}{"conversationId": conversationID})

	history, err := h.memory.History(ctx, conversationID)
	if err != nil {
		log.Warn("conversation memory unavailable", map[string]interface{}{"error": err.Error()})
		history = nil
	}

	userMsg := llm.Message{Role: llm.RoleUser, Content: text}
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: h.systemPrompt()})
	messages = append(messages, history...)
	messages = append(messages, userMsg)

	callCtx := ctx
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	temperature := h.config.Temperature
	raw, err := h.converse(callCtx, llm.Request{
		Messages:        messages,
		Temperature:     &temperature,
		MaxOutputTokens: h.config.MaxOutputTokens,
	})
	if err != nil {
		log.Error("weather model call failed", apperrors.LogFields(err))
		return models.TextReply(models.RouteWeather, h.config.FailureMessage)
	}

	if err := h.memory.Append(ctx, conversationID, userMsg, llm.Message{Role: llm.RoleAssistant, Content: raw}); err != nil {
		log.Warn("conversation memory not updated", map[string]interface{}{"error": err.Error()})
	}

	result := decodeEnvelope(raw)
	if result.Defaulted {
		metrics.FallbacksTotal.WithLabelValues(string(fallback.KindChatEnvelope)).Inc()
		log.Warn("reply envelope rejected, sending raw text", map[string]interface{}{
			"error": apperrors.NewReplyDecodeFailedError(result.Err).Error(),
		})
	}

	log.Info("weather reply ready", map[string]interface{}{
		"contentType": string(result.Value.ContentType),
		"history":     len(history),
	})
	return result.Value
}

// converse runs the model until it answers with text, executing tool calls
// in between. Tool traffic is not kept in conversation memory.
func (h *Handler) converse(ctx context.Context, req llm.Request) (string, error) {
	tp, ok := h.provider.(llm.ToolProvider)
	if !ok || h.forecaster == nil {
		return h.provider.Complete(ctx, req)
	}

	req.Tools = chatTools
	for round := 0; round < h.config.MaxToolRounds; round++ {
		resp, err := tp.Respond(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.ToolCalls) == 0 {
			if resp.Text == "" {
				return "", apperrors.NewLLMRequestFailedError(llm.ErrEmptyCompletion)
			}
			return resp.Text, nil
		}

		req.Messages = append(req.Messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Text,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			req.Messages = append(req.Messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.CallID,
				Content:    h.runTool(ctx, call),
			})
		}
	}
	return "", apperrors.NewLLMRequestFailedError(ErrToolRoundsExhausted)
}

func (h *Handler) systemPrompt() string {
	return fmt.Sprintf(systemPrompt, h.now().Format("Monday, January 2, 2006"))
}

// decodeEnvelope turns the model text into a reply. Anything that is not a
// valid envelope falls back to the raw text.
func decodeEnvelope(raw string) fallback.Result[*models.Reply] {
	plain := models.TextReply(models.RouteWeather, strings.TrimSpace(raw))

	var env envelope
	if err := validation.DecodeStrict(raw, envelopeSchema, &env); err != nil {
		return fallback.Default(plain, err)
	}

	switch models.ContentType(env.ContentType) {
	case models.ContentAdaptiveCard:
		card, err := cardJSON(env.Content)
		if err != nil {
			return fallback.Default(plain, err)
		}
		return fallback.Ok(models.CardReply(models.RouteWeather, card))
	default:
		var text string
		if err := json.Unmarshal(env.Content, &text); err != nil {
			// an object under contentType Text; send it verbatim
			text = string(env.Content)
		}
		return fallback.Ok(models.TextReply(models.RouteWeather, text))
	}
}

// cardJSON accepts the card either as an object or as a string holding one.
func cardJSON(content json.RawMessage) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(content))
	if strings.HasPrefix(trimmed, "{") {
		return json.RawMessage(trimmed), nil
	}

	var s string
	if err := json.Unmarshal(content, &s); err != nil {
		return nil, err
	}
	s = validation.StripFences(s)
	if !strings.HasPrefix(s, "{") || !json.Valid([]byte(s)) {
		return nil, fmt.Errorf("%w: %.40q", ErrCardNotObject, s)
	}
	return json.RawMessage(s), nil
}
