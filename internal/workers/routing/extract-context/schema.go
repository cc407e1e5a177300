// internal/workers/routing/extract-context/schema.go
package extractcontext

import "trip-concierge/internal/common/validation"

// normalizePurpose lets "Meeting" or " N/A " through the purpose enums.
var normalizePurpose = validation.LowercaseField("purpose", "", "null", "none", "n/a", "unknown")

var queryContextSchema = validation.MustCompile("query_context", `{
	"type": "object",
	"required": ["requiresMultiAgent"],
	"properties": {
		"requiresMultiAgent": {"type": "boolean"},
		"location": {"type": ["string", "null"]},
		"date": {"type": ["string", "null"]},
		"time": {"type": ["string", "null"]},
		"needsTransport": {"type": "boolean"},
		"purpose": {"type": ["string", "null"], "enum": ["meeting", "event", "travel", "other", null]}
	}
}`)

var journeyContextSchema = validation.MustCompile("journey_context", `{
	"type": "object",
	"required": ["requiresMultiStop"],
	"properties": {
		"requiresMultiStop": {"type": "boolean"},
		"startLocation": {"type": ["string", "null"]},
		"mainDestination": {"type": ["string", "null"]},
		"date": {"type": ["string", "null"]},
		"time": {"type": ["string", "null"]},
		"purpose": {"type": ["string", "null"], "enum": ["meeting", "interview", "event", "shopping", "tourism", null]},
		"activities": {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`)
