// internal/workers/planning/journey-planner/prompts.go
package journeyplanner

import (
	"fmt"
	"strings"

	"trip-concierge/internal/models"
)

const shoppingRequest = `

Please recommend SPECIFIC PRODUCTS I should buy for this journey and weather. For each product, suggest:
1. The exact item name (e.g., "compact umbrella", "business notebook", "pain reliever")
2. The type of store where I can buy it in NYC (pharmacy, department store, stationery store, etc.)
3. Why I need this item

Be specific with product names, not just categories.`

const fareHeader = `IMPORTANT: Query the NYC green taxi database (lpep_pickup_datetime, lpep_dropoff_datetime, PULocationID, DOLocationID, passenger_count, trip_distance, fare_amount, tip_amount, total_amount).

`

const fareRequest = `Calculate and provide:
1. Average fare_amount
2. Average trip_distance
3. Average total_amount
4. Average tip_amount
5. Count of trips

IMPORTANT:
- Use ALL available trip data for this route
- Do NOT filter by time of day, day of week, or any other conditions
- Do NOT consider weather (not in database)
- Provide actual database statistics only`

func buildShoppingPrompt(jc models.JourneyContext, w *models.WeatherSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I'm planning a journey in %s on %s for a %s.", jc.MainDestination, jc.Date, jc.Purpose)
	if w != nil {
		fmt.Fprintf(&b, " The weather will be %s, %d°F.", w.Condition, w.TemperatureF)
	}
	b.WriteString(shoppingRequest)
	return b.String()
}

// buildFarePrompt uses zone ids when both ends resolved, place names otherwise.
// zoneName labels the ids with their official zone names.
func buildFarePrompt(seg models.RouteSegment, zoneName func(int) string) string {
	var b strings.Builder
	b.WriteString(fareHeader)
	if seg.FromLocationID != nil && seg.ToLocationID != nil {
		fmt.Fprintf(&b, "Find trips WHERE PULocationID = %d AND DOLocationID = %d\n", *seg.FromLocationID, *seg.ToLocationID)
		fmt.Fprintf(&b, "(%s to %s)\n\n", zoneName(*seg.FromLocationID), zoneName(*seg.ToLocationID))
	} else {
		fmt.Fprintf(&b, "Find trips from %q to %q\n\n", seg.From, seg.To)
	}
	b.WriteString(fareRequest)
	return b.String()
}
