// internal/workers/routing/extract-context/prompts.go
package extractcontext

import (
	"fmt"
	"strings"
)

const complexQueryPrompt = `Analyze this user message and extract information:
"%s"

IMPORTANT: A query requires MULTI-AGENT coordination if it involves travel, meetings, events, or outings where:
- Weather information would be helpful (to prepare for conditions)
- Shopping recommendations might be needed (to bring appropriate items)
- Transportation is needed or implied (taxi, ride, getting somewhere)

Examples requiring multi-agent (requiresMultiAgent: true):
- "I have a meeting in Boston tomorrow at 2 PM" → needs weather + shopping + taxi
- "I'm going to New York next week" → needs weather + shopping + taxi
- "What should I bring for my trip to Seattle?" → needs weather + shopping
- "I need to attend an event in Chicago" → needs weather + shopping + taxi

Examples NOT requiring multi-agent (requiresMultiAgent: false):
- "What's the weather today?" → only weather
- "I need a taxi now" → only taxi
- "What can I buy online?" → only shopping

Determine:
1. Is this a complex query needing multiple agents? (yes/no)
2. Location mentioned? (city name or null)
3. Date/time mentioned? (tomorrow/today/specific date or null)
4. Time mentioned? (specific time or null)
5. Needs transportation? (yes/no)
6. Purpose? (meeting/event/travel/other)

Respond in JSON format only, using JSON null for anything not mentioned:
{
  "requiresMultiAgent": true/false,
  "location": "city or null",
  "date": "extracted date or null",
  "time": "extracted time or null",
  "needsTransport": true/false,
  "purpose": "meeting/event/travel/other"
}`

const journeyPromptHead = `Analyze this user message and determine if it's a multi-stop journey request:
"%s"

A multi-stop journey includes:
- ANY mention of a destination with a specific purpose (meeting, interview, event, appointment)
- ANY time or date mentioned
- Potential for shopping/errands along the way (even if not explicitly mentioned)
- Travel between locations
`

const journeyTriggerRule = `
IMPORTANT: If the user mentions going somewhere for %s, ALWAYS treat it as a multi-stop journey (requiresMultiStop: true) because they may need to prepare or shop for items.
`

const journeyPromptTail = `
Determine:
1. Is this a multi-stop journey? (yes/no)
2. Main destination location
3. Date/time
4. Purpose (meeting/interview/event/shopping/tourism)
5. Starting point (if mentioned)
6. Activities mentioned (shopping, eating, etc.)

Respond in JSON format only, using JSON null for anything not mentioned:
{
  "requiresMultiStop": true/false,
  "startLocation": "location or null",
  "mainDestination": "location",
  "date": "date",
  "time": "time or null",
  "purpose": "purpose",
  "activities": ["activity1", "activity2"]
}`

func buildComplexQueryPrompt(message string) string {
	return fmt.Sprintf(complexQueryPrompt, message)
}

func buildJourneyPrompt(message string, triggers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, journeyPromptHead, message)
	if list := joinPurposes(triggers); list != "" {
		fmt.Fprintf(&b, journeyTriggerRule, list)
	}
	b.WriteString(journeyPromptTail)
	return b.String()
}

// joinPurposes renders ["meeting","interview","event"] as "a meeting, interview, or event".
func joinPurposes(purposes []string) string {
	var clean []string
	for _, p := range purposes {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	switch len(clean) {
	case 0:
		return ""
	case 1:
		return "a " + clean[0]
	case 2:
		return "a " + clean[0] + " or " + clean[1]
	default:
		return "a " + strings.Join(clean[:len(clean)-1], ", ") + ", or " + clean[len(clean)-1]
	}
}
