// internal/workers/planning/journey-planner/config.go
package journeyplanner

type Config struct {
	DefaultStartLocation string
	// PreferredZone is the substring of a store's zone that wins store selection.
	PreferredZone          string
	ShoppingUnavailable    string
	FareUnavailable        string
	ShoppingStopPurpose    string
	ShoppingStopTime       string
	PrecipitationNoteAbove int
	// DepartureFactor scales total travel time into the "leave early" tip.
	DepartureFactor float64
}

func LoadConfig() *Config {
	return &Config{
		DefaultStartLocation:   "JFK Airport",
		PreferredZone:          "Midtown",
		ShoppingUnavailable:    "Unable to get shopping recommendations.",
		FareUnavailable:        "Unable to retrieve fare data",
		ShoppingStopPurpose:    "Buy all recommended items",
		ShoppingStopTime:       "15-20 minutes",
		PrecipitationNoteAbove: 30,
		DepartureFactor:        1.3,
	}
}
