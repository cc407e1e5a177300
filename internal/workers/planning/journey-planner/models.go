// internal/workers/planning/journey-planner/models.go
package journeyplanner

import "trip-concierge/internal/models"

type Input struct {
	Message string `json:"message"`
}

type Output struct {
	Handled bool                  `json:"handled"`
	Context models.JourneyContext `json:"context"`
	Plan    *models.JourneyPlan   `json:"plan,omitempty"`
	Text    string                `json:"text,omitempty"`
}
