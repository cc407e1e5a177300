// internal/workers/agents/weather-chat/models.go
package weatherchat

import (
	"encoding/json"

	"trip-concierge/internal/common/validation"
)

// envelope is the reply shape the model is told to use.
type envelope struct {
	ContentType string          `json:"contentType"`
	Content     json.RawMessage `json:"content"`
}

var envelopeSchema = validation.MustCompile("chat_envelope", `{
	"type": "object",
	"required": ["contentType", "content"],
	"properties": {
		"contentType": {"type": "string", "enum": ["Text", "AdaptiveCard"]},
		"content": {"type": ["string", "object"]}
	}
}`)
