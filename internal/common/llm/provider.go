// internal/common/llm/provider.go

// Package llm is the thin boundary to the language model. Components depend
// on Provider; the OpenAI implementation lives in openai.go.
package llm

import (
	"context"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one conversation entry. An assistant message may carry the tool
// calls it made; a RoleTool message answers the call named by ToolCallID.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Tool is a function the model may call. Parameters is a JSON schema object.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type ToolCall struct {
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Request is one completion call. Zero Temperature/MaxOutputTokens mean provider defaults.
type Request struct {
	Messages        []Message
	Tools           []Tool
	Temperature     *float64
	MaxOutputTokens int
}

// Response is a model turn: either final text or tool calls to run.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// Provider turns a conversation into the assistant's next text.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ToolProvider is a Provider that can also return tool calls.
type ToolProvider interface {
	Provider
	Respond(ctx context.Context, req Request) (*Response, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

func (f ProviderFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Ask sends a single user prompt at temperature 0 and returns the trimmed reply.
func Ask(ctx context.Context, p Provider, prompt string) (string, error) {
	zero := 0.0
	out, err := p.Complete(ctx, Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		Temperature: &zero,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// LastUserMessage returns the content of the final user message, or "".
func LastUserMessage(req Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}
