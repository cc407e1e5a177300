// internal/models/context.go
package models

// AgentType names a routing target.
type AgentType string

const (
	AgentWeather AgentType = "weather"
	AgentShopper AgentType = "shopper"
	AgentTaxi    AgentType = "taxi"
)

// Purpose of a composite query.
type Purpose string

const (
	PurposeMeeting Purpose = "meeting"
	PurposeEvent   Purpose = "event"
	PurposeTravel  Purpose = "travel"
	PurposeOther   Purpose = "other"
)

// JourneyPurpose of a multi-stop journey.
type JourneyPurpose string

const (
	JourneyMeeting   JourneyPurpose = "meeting"
	JourneyInterview JourneyPurpose = "interview"
	JourneyEvent     JourneyPurpose = "event"
	JourneyShopping  JourneyPurpose = "shopping"
	JourneyTourism   JourneyPurpose = "tourism"
)

// QueryContext is the structured reading of a message that may need several agents.
type QueryContext struct {
	RequiresMultiAgent bool    `json:"requiresMultiAgent"`
	Location           *string `json:"location"`
	Date               *string `json:"date"`
	Time               *string `json:"time"`
	NeedsTransport     bool    `json:"needsTransport"`
	Purpose            Purpose `json:"purpose"`
}

// JourneyContext is the structured reading of a multi-stop trip request.
type JourneyContext struct {
	RequiresMultiStop bool           `json:"requiresMultiStop"`
	StartLocation     *string        `json:"startLocation"`
	MainDestination   string         `json:"mainDestination"`
	Date              string         `json:"date"`
	Time              *string        `json:"time"`
	Purpose           JourneyPurpose `json:"purpose"`
	Activities        []string       `json:"activities"`
}

// InboundMessage is one user turn.
type InboundMessage struct {
	ConversationID string `json:"conversationId"`
	Text           string `json:"text"`
}

// StringOr dereferences s, returning def when s is nil or empty.
func StringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
