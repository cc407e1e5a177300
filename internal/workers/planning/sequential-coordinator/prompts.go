// internal/workers/planning/sequential-coordinator/prompts.go
package sequentialcoordinator

import (
	"fmt"
	"strings"

	"trip-concierge/internal/models"
)

const taxiDataRequest = `

Please provide from the NYC taxi database:
1. Average fare_amount for this route/time
2. Average trip_distance
3. Typical total_amount (including surcharges)
4. Average tip_amount
5. Congestion_surcharge if applicable
6. Recommended pickup time accounting for traffic

Query the database and use actual data, not general estimates.`

func buildShoppingPrompt(qc models.QueryContext, w *models.WeatherSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on this weather: %s, %d°F", w.Condition, w.TemperatureF)

	if w.Condition == models.ConditionRainy || w.PrecipitationPct > 50 {
		fmt.Fprintf(&b, ", %d%% chance of rain", w.PrecipitationPct)
	}
	if w.Condition == models.ConditionSnowy || w.TemperatureF < 32 {
		b.WriteString(", cold/snowy conditions")
	}

	fmt.Fprintf(&b, " in %s %s", models.StringOr(qc.Location, w.Location), models.StringOr(qc.Date, w.Date))
	fmt.Fprintf(&b, ". What items should I buy or bring for %s?", qc.Purpose)
	return b.String()
}

func buildTaxiPrompt(qc models.QueryContext, w *models.WeatherSnapshot) string {
	var b strings.Builder
	b.WriteString("IMPORTANT: Query the NYC taxi database for actual fare data.\n\nUser request: I need a taxi")

	if qc.Location != nil {
		fmt.Fprintf(&b, " in %s", *qc.Location)
	}
	if qc.Date != nil {
		fmt.Fprintf(&b, " %s", *qc.Date)
	}
	if qc.Time != nil {
		fmt.Fprintf(&b, " at %s", *qc.Time)
	}
	fmt.Fprintf(&b, " for a %s.", qc.Purpose)

	if w != nil {
		fmt.Fprintf(&b, " The weather will be %s, %d°F", w.Condition, w.TemperatureF)
		if w.Condition == models.ConditionSnowy || w.Condition == models.ConditionRainy {
			b.WriteString(". Account for weather delays.")
		}
	}

	b.WriteString(taxiDataRequest)
	return b.String()
}
