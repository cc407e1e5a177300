// internal/workers/planning/journey-planner/stops.go
package journeyplanner

import (
	"regexp"
	"strings"

	"trip-concierge/internal/models"
)

// category is one kind of shop the planner knows how to route through.
type category struct {
	storeType     models.StoreType
	detect        *regexp.Regexp
	products      []string
	genericReason string
}

// checked in this order; stops come out in the same order
var categories = []category{
	{
		storeType:     models.StorePharmacy,
		detect:        regexp.MustCompile(`\b(medicine|pain reliever|aspirin|ibuprofen|band-aid|bandage|vitamins|pharmacy|drug store)\b`),
		products:      []string{"medicine", "pain reliever", "aspirin", "ibuprofen", "band-aid", "vitamins"},
		genericReason: "health items",
	},
	{
		storeType:     models.StoreDepartment,
		detect:        regexp.MustCompile(`\b(umbrella|coat|jacket|clothing|accessories|bag|luggage)\b`),
		products:      []string{"umbrella", "coat", "jacket", "clothing", "bag", "accessories"},
		genericReason: "weather/travel items",
	},
	{
		storeType:     models.StoreStationery,
		detect:        regexp.MustCompile(`\b(notebook|pen|folder|organizer|portfolio|notepad|office supplies|stationery)\b`),
		products:      []string{"notebook", "pen", "folder", "organizer", "portfolio"},
		genericReason: "office supplies",
	},
	{
		storeType:     models.StoreConvenience,
		detect:        regexp.MustCompile(`\b(snack|water|coffee|drink|food|energy bar|gum)\b`),
		products:      []string{"snack", "water", "coffee", "energy bar", "gum"},
		genericReason: "refreshments",
	},
}

var productPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, c := range categories {
		for _, p := range c.products {
			m[p] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `(?:e?s)?\b`)
		}
	}
	return m
}()

// StoreLister returns candidate stores for a category.
type StoreLister interface {
	Stores(t models.StoreType) []models.StoreCandidate
}

// ExtractStops scans a shopping recommendation for the categories above and
// returns one stop per category that matched.
func ExtractStops(recommendation string, stores StoreLister) []models.ShoppingStop {
	text := strings.ToLower(recommendation)

	var stops []models.ShoppingStop
	for _, c := range categories {
		if !c.detect.MatchString(text) {
			continue
		}

		products := matchProducts(text, c.products)
		reason := c.genericReason
		if len(products) > 0 {
			reason = strings.Join(products, ", ")
		}

		stops = append(stops, models.ShoppingStop{
			Type:               c.storeType,
			Reason:             "Buy " + reason,
			Products:           products,
			AvailableLocations: stores.Stores(c.storeType),
		})
	}
	return stops
}

// matchProducts returns the keywords present in text as whole words or their
// plurals, in keyword order.
func matchProducts(text string, keywords []string) []string {
	found := []string{}
	for _, k := range keywords {
		if productPatterns[k].MatchString(text) {
			found = append(found, k)
		}
	}
	return found
}
