// internal/workers/agents/weather-chat/tools.go
package weatherchat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/models"
)

const (
	toolGetWeather = "get_weather"
	toolGetDate    = "get_date"
)

var (
	ErrUnknownTool         = errors.New("UNKNOWN_TOOL")
	ErrToolRoundsExhausted = errors.New("TOOL_ROUNDS_EXHAUSTED")
)

// Forecaster looks up the weather for a place and day.
type Forecaster interface {
	Forecast(ctx context.Context, location, date string) (*models.WeatherSnapshot, error)
}

var chatTools = []llm.Tool{
	{
		Name:        toolGetWeather,
		Description: "Get the weather forecast for a location on a given date (YYYY-MM-DD).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{"type": "string", "description": "City or place name"},
				"date":     map[string]any{"type": "string", "description": "Date in YYYY-MM-DD format"},
			},
			"required":             []string{"location", "date"},
			"additionalProperties": false,
		},
	},
	{
		Name:        toolGetDate,
		Description: "Get today's date.",
		Parameters: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"required":             []string{},
			"additionalProperties": false,
		},
	},
}

type weatherArgs struct {
	Location string `json:"location"`
	Date     string `json:"date"`
}

// runTool executes one call. Failures are reported to the model as an error
// object so it can ask the user instead.
func (h *Handler) runTool(ctx context.Context, call llm.ToolCall) string {
	out, err := h.callTool(ctx, call)
	if err != nil {
		h.logger.Warn("tool call failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		data, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(data)
	}
	return out
}

func (h *Handler) callTool(ctx context.Context, call llm.ToolCall) (string, error) {
	switch call.Name {
	case toolGetDate:
		return h.now().Format("2006-01-02 (Monday)"), nil
	case toolGetWeather:
		var args weatherArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("bad arguments: %w", err)
		}
		snap, err := h.forecaster.Forecast(ctx, args.Location, args.Date)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(snap)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
	}
}
