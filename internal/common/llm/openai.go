// internal/common/llm/openai.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"trip-concierge/internal/common/config"
	apperrors "trip-concierge/internal/common/errors"
)

var ErrEmptyCompletion = errors.New("EMPTY_COMPLETION")

// OpenAIProvider implements Provider with the Responses API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

// NewOpenAIProvider builds a provider from config. maxRetries is passed to the
// SDK, which retries 429 and 5xx itself.
func NewOpenAIProvider(cfg config.LLMConfig, maxRetries int) (*OpenAIProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm.model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(maxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &OpenAIProvider{
		client:      &client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		timeout:     config.GetDuration(cfg.Timeout),
	}, nil
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := p.Respond(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Text == "" {
		return "", apperrors.NewLLMRequestFailedError(ErrEmptyCompletion)
	}
	return resp.Text, nil
}

// Respond runs one model turn. When req.Tools is set the reply may be a set of
// function calls instead of text.
func (p *OpenAIProvider) Respond(ctx context.Context, req Request) (*Response, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	result, err := p.client.Responses.New(ctx, p.buildParams(req))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewLLMTimeoutError(err)
		}
		return nil, apperrors.NewLLMRequestFailedError(err)
	}

	resp := &Response{
		Text:      result.OutputText(),
		ToolCalls: extractToolCalls(result.Output),
	}
	if resp.Text == "" && len(resp.ToolCalls) == 0 {
		return nil, apperrors.NewLLMRequestFailedError(ErrEmptyCompletion)
	}
	return resp, nil
}

func (p *OpenAIProvider) buildParams(req Request) responses.ResponseNewParams {
	items := make(responses.ResponseInputParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch {
		case m.Role == RoleTool:
			items = append(items, responses.ResponseInputItemParamOfFunctionCallOutput(m.ToolCallID, m.Content))
		case m.Role == RoleAssistant && len(m.ToolCalls) > 0:
			if m.Content != "" {
				items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, responses.EasyInputMessageRoleAssistant))
			}
			for _, call := range m.ToolCalls {
				items = append(items, responses.ResponseInputItemParamOfFunctionCall(call.Arguments, call.CallID, call.Name))
			}
		default:
			items = append(items, responses.ResponseInputItemParamOfMessage(m.Content, easyRole(m.Role)))
		}
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(p.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: items,
		},
	}

	temperature := p.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	params.Temperature = openai.Float(temperature)

	maxTokens := p.maxTokens
	if req.MaxOutputTokens > 0 {
		maxTokens = req.MaxOutputTokens
	}
	if maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(maxTokens))
	}

	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}

	return params
}

func convertTools(tools []Tool) []responses.ToolUnionParam {
	result := make([]responses.ToolUnionParam, len(tools))
	for i, tool := range tools {
		result[i] = responses.ToolParamOfFunction(tool.Name, ensureObjectType(tool.Parameters), true)
		if tool.Description != "" {
			result[i].OfFunction.Description = openai.String(tool.Description)
		}
	}
	return result
}

func extractToolCalls(output []responses.ResponseOutputItemUnion) []ToolCall {
	var calls []ToolCall
	for _, item := range output {
		if item.Type != "function_call" {
			continue
		}
		calls = append(calls, ToolCall{
			CallID:    item.CallID,
			Name:      item.Name,
			Arguments: item.Arguments,
		})
	}
	return calls
}

func ensureObjectType(params map[string]any) map[string]any {
	if params == nil {
		return map[string]any{"type": "object"}
	}
	if _, ok := params["type"]; !ok {
		params["type"] = "object"
	}
	return params
}

func easyRole(r Role) responses.EasyInputMessageRole {
	switch r {
	case RoleSystem:
		return responses.EasyInputMessageRoleSystem
	case RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	default:
		return responses.EasyInputMessageRoleUser
	}
}
