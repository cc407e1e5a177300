// internal/workers/routing/classify-intent/models.go
package classifyintent

import "trip-concierge/internal/models"

type Input struct {
	Message string `json:"message"`
}

type Output struct {
	Agent     models.AgentType `json:"agent"`
	RawAnswer string           `json:"rawAnswer,omitempty"`
	Defaulted bool             `json:"defaulted"`
}
