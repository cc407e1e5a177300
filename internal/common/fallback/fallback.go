// internal/common/fallback/fallback.go

// Package fallback holds the single table of safe defaults used when a
// model-backed step cannot produce a usable value, and the Result type that
// carries either the parsed value or the default plus the reason.
package fallback

import (
	"trip-concierge/internal/models"
)

// Result is the outcome of one parse-or-default step. When Defaulted is true,
// Value holds the policy default and Err explains why.
type Result[T any] struct {
	Value     T
	Err       error
	Defaulted bool
}

// Ok wraps a successfully parsed value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Default wraps the policy default together with the failure that forced it.
func Default[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err, Defaulted: true}
}

// Kind names one defaulted decision; used as a metrics label.
type Kind string

const (
	KindIntent       Kind = "intent"
	KindQueryContext Kind = "query_context"
	KindJourney      Kind = "journey_context"
	KindChatEnvelope Kind = "chat_envelope"
)

// Policy is the default-policy table.
type Policy struct {
	Agent        models.AgentType
	QueryContext models.QueryContext
	Journey      models.JourneyContext
}

// DefaultPolicy never enables multi-agent or multi-stop handling and routes to weather.
var DefaultPolicy = Policy{
	Agent:        models.AgentWeather,
	QueryContext: models.QueryContext{RequiresMultiAgent: false, Purpose: models.PurposeOther},
	Journey:      models.JourneyContext{RequiresMultiStop: false, Activities: []string{}},
}

// Agent returns the default routing target.
func Agent(err error) Result[models.AgentType] {
	return Default(DefaultPolicy.Agent, err)
}

// QueryContext returns the default composite-query context.
func QueryContext(err error) Result[models.QueryContext] {
	return Default(DefaultPolicy.QueryContext, err)
}

// Journey returns the default journey context.
func Journey(err error) Result[models.JourneyContext] {
	j := DefaultPolicy.Journey
	j.Activities = []string{}
	return Default(j, err)
}
