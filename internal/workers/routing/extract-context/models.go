// internal/workers/routing/extract-context/models.go
package extractcontext

import (
	"strings"

	"trip-concierge/internal/models"
)

// queryRecord and journeyRecord are the wire shapes the model is asked for.
// Optional strings are pointers so JSON null and missing keys both decode to nil.
type queryRecord struct {
	RequiresMultiAgent bool    `json:"requiresMultiAgent"`
	Location           *string `json:"location"`
	Date               *string `json:"date"`
	Time               *string `json:"time"`
	NeedsTransport     bool    `json:"needsTransport"`
	Purpose            *string `json:"purpose"`
}

type journeyRecord struct {
	RequiresMultiStop bool     `json:"requiresMultiStop"`
	StartLocation     *string  `json:"startLocation"`
	MainDestination   *string  `json:"mainDestination"`
	Date              *string  `json:"date"`
	Time              *string  `json:"time"`
	Purpose           *string  `json:"purpose"`
	Activities        []string `json:"activities"`
}

func (r queryRecord) toContext() models.QueryContext {
	qc := models.QueryContext{
		RequiresMultiAgent: r.RequiresMultiAgent,
		Location:           clean(r.Location),
		Date:               clean(r.Date),
		Time:               clean(r.Time),
		NeedsTransport:     r.NeedsTransport,
		Purpose:            models.PurposeOther,
	}
	if p := clean(r.Purpose); p != nil {
		qc.Purpose = models.Purpose(strings.ToLower(*p))
	}
	return qc
}

func (r journeyRecord) toContext() models.JourneyContext {
	jc := models.JourneyContext{
		RequiresMultiStop: r.RequiresMultiStop,
		StartLocation:     clean(r.StartLocation),
		MainDestination:   models.StringOr(clean(r.MainDestination), ""),
		Date:              models.StringOr(clean(r.Date), ""),
		Time:              clean(r.Time),
		Activities:        []string{},
	}
	if p := clean(r.Purpose); p != nil {
		jc.Purpose = models.JourneyPurpose(strings.ToLower(*p))
	}
	for _, a := range r.Activities {
		if a = strings.TrimSpace(a); a != "" {
			jc.Activities = append(jc.Activities, a)
		}
	}
	return jc
}

// clean trims s and maps the placeholder spellings models use for "nothing" to nil.
func clean(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	switch strings.ToLower(v) {
	case "", "null", "none", "n/a", "unknown":
		return nil
	}
	return &v
}
