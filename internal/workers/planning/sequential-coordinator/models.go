// internal/workers/planning/sequential-coordinator/models.go
package sequentialcoordinator

import "trip-concierge/internal/models"

type Input struct {
	Message string `json:"message"`
}

type Output struct {
	Handled bool         `json:"handled"`
	Results *ChainResult `json:"results,omitempty"`
	Text    string       `json:"text,omitempty"`
}

// ChainResult collects what each step of the chain produced. Nil sections
// were skipped, not failed; failed sections hold the placeholder text.
type ChainResult struct {
	Original string                  `json:"original"`
	Context  models.QueryContext     `json:"context"`
	Weather  *models.WeatherSnapshot `json:"weather,omitempty"`
	Shopping *string                 `json:"shopping,omitempty"`
	Taxi     *string                 `json:"taxi,omitempty"`
}
