// internal/workers/planning/journey-planner/fare.go
package journeyplanner

import (
	"regexp"
	"strconv"

	"trip-concierge/internal/models"
)

// FareParser turns the transportation specialist's free text into numbers.
type FareParser interface {
	Parse(reply string) models.SegmentFare
}

// RegexFareParser takes the first dollar amount, distance and duration it
// finds, and substitutes fixed estimates for anything missing.
type RegexFareParser struct {
	DefaultCost     float64
	DefaultDistance float64
	DefaultDuration int
}

var (
	costPattern     = regexp.MustCompile(`\$(\d+\.?\d*)`)
	distancePattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*miles?`)
	durationPattern = regexp.MustCompile(`(?i)(\d+)\s*min`)
)

func NewRegexFareParser() *RegexFareParser {
	return &RegexFareParser{
		DefaultCost:     25,
		DefaultDistance: 5,
		DefaultDuration: 15,
	}
}

func (p *RegexFareParser) Parse(reply string) models.SegmentFare {
	fare := models.SegmentFare{
		FareData:      reply,
		EstimatedCost: p.DefaultCost,
		Distance:      p.DefaultDistance,
		Duration:      p.DefaultDuration,
	}

	if m := costPattern.FindStringSubmatch(reply); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			fare.EstimatedCost = v
		}
	}
	if m := distancePattern.FindStringSubmatch(reply); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			fare.Distance = v
		}
	}
	if m := durationPattern.FindStringSubmatch(reply); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			fare.Duration = v
		}
	}
	return fare
}
