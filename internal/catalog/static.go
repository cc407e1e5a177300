// internal/catalog/static.go
package catalog

import "trip-concierge/internal/models"

var defaultZones = []Zone{
	// Airports
	{"jfk", 136},
	{"jfk airport", 136},
	{"laguardia", 138},
	{"lga", 138},
	{"laguardia airport", 138},

	// Manhattan
	{"times square", 236},
	{"theatre district", 236},
	{"midtown", 154},
	{"midtown center", 154},
	{"penn station", 186},
	{"madison square", 186},
	{"central park", 43},
	{"upper east side", 247},
	{"upper west side", 254},
	{"seaport", 221},
	{"meatpacking", 153},
	{"west village", 153},
	{"turtle bay", 241},
	{"lincoln square", 143},
	{"clinton", 66},

	// Queens
	{"astoria", 18},
	{"corona", 83},
	{"bayside", 36},
	{"fresh meadows", 118},
	{"rego park", 211},
	{"east elmhurst", 93},

	// Brooklyn
	{"park slope", 187},
	{"crown heights", 86},
	{"columbia street", 73},
}

var defaultZoneNames = map[int]string{
	136: "JFK Airport",
	138: "LaGuardia Airport",
	236: "Times Sq/Theatre District",
	154: "Midtown Center",
	186: "Penn Station/Madison Sq West",
	43:  "Central Park",
	247: "Upper East Side North",
	254: "Upper West Side South",
	255: "Upper West Side North",
	221: "Seaport",
	153: "Meatpacking/West Village West",
	241: "Turtle Bay North",
	143: "Lincoln Square East",
	66:  "Clinton East",
	68:  "Clinton West",
	18:  "Astoria",
	83:  "Corona",
	36:  "Bayside",
	118: "Fresh Meadows",
	211: "Rego Park",
	93:  "East Elmhurst",
	187: "Park Slope",
	86:  "Crown Heights North",
	73:  "Columbia Street",
	33:  "Bay Terrace/Fort Totten",
	172: "Oakland Gardens",
	204: "Queensboro Hill",
}

var (
	pharmacyProducts    = []string{"medicine", "pain reliever", "band-aid", "vitamins", "personal care"}
	stationeryProducts  = []string{"notebook", "pen", "folder", "organizer", "office supplies"}
	convenienceProducts = []string{"snack", "water", "coffee", "food", "drink"}
)

var defaultStores = map[models.StoreType][]models.StoreCandidate{
	models.StorePharmacy: {
		{Name: "Duane Reade Midtown", Zone: "Midtown Center", LocationID: 154, Products: pharmacyProducts},
		{Name: "CVS Times Square", Zone: "Times Sq/Theatre District", LocationID: 236, Products: pharmacyProducts},
		{Name: "Walgreens Penn Station", Zone: "Penn Station/Madison Sq West", LocationID: 186, Products: pharmacyProducts},
	},
	models.StoreDepartment: {
		{Name: "Macy's Herald Square", Zone: "Garment District", LocationID: 118, Products: []string{"umbrella", "clothing", "accessories", "bag", "luggage"}},
		{Name: "Target East Village", Zone: "East Village", LocationID: 73, Products: []string{"umbrella", "notebook", "bag", "accessories", "basics"}},
	},
	models.StoreStationery: {
		{Name: "Staples Midtown", Zone: "Midtown Center", LocationID: 154, Products: stationeryProducts},
		{Name: "Office Depot Murray Hill", Zone: "Murray Hill", LocationID: 153, Products: stationeryProducts},
	},
	models.StoreConvenience: {
		{Name: "Whole Foods Union Square", Zone: "Union Sq", LocationID: 241, Products: convenienceProducts},
		{Name: "7-Eleven Midtown", Zone: "Midtown Center", LocationID: 154, Products: convenienceProducts},
	},
}

// Static returns the built-in NYC catalog.
func Static() *Snapshot {
	return NewSnapshot(defaultZones, defaultZoneNames, defaultStores)
}
