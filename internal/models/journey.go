// internal/models/journey.go
package models

// Condition is a coarse weather condition.
type Condition string

const (
	ConditionSunny        Condition = "Sunny"
	ConditionCloudy       Condition = "Cloudy"
	ConditionRainy        Condition = "Rainy"
	ConditionSnowy        Condition = "Snowy"
	ConditionPartlyCloudy Condition = "Partly Cloudy"
)

// Conditions lists every condition in a stable order.
var Conditions = []Condition{ConditionSunny, ConditionCloudy, ConditionRainy, ConditionSnowy, ConditionPartlyCloudy}

// WeatherSnapshot is a forecast for one place and day.
type WeatherSnapshot struct {
	Location         string    `json:"location"`
	Date             string    `json:"date"`
	TemperatureF     int       `json:"temperatureF"`
	Condition        Condition `json:"condition"`
	PrecipitationPct int       `json:"precipitationPct"`
}

// StoreType is a shopping category.
type StoreType string

const (
	StorePharmacy    StoreType = "pharmacy"
	StoreDepartment  StoreType = "department"
	StoreStationery  StoreType = "stationery"
	StoreConvenience StoreType = "convenience"
)

// StoreCandidate is a physical store that can serve a shopping stop.
type StoreCandidate struct {
	Name       string   `json:"name"`
	Zone       string   `json:"zone"`
	LocationID int      `json:"locationId"`
	Products   []string `json:"products"`
}

// ShoppingStop is one detected shopping need.
type ShoppingStop struct {
	Type               StoreType        `json:"type"`
	Reason             string           `json:"reason"`
	Products           []string         `json:"products"`
	AvailableLocations []StoreCandidate `json:"availableLocations"`
}

// StopType distinguishes intermediate shopping legs from the final leg.
type StopType string

const (
	StopShopping    StopType = "shopping"
	StopDestination StopType = "destination"
)

// SegmentFare is the parsed answer of the transportation specialist for one leg.
type SegmentFare struct {
	FareData      string  `json:"fareData"`
	EstimatedCost float64 `json:"estimatedCost"`
	Distance      float64 `json:"distance"`
	Duration      int     `json:"duration"`
}

// RouteSegment is one taxi leg of a journey.
type RouteSegment struct {
	SegmentNumber     int          `json:"segmentNumber"`
	From              string       `json:"from"`
	FromLocationID    *int         `json:"fromLocationId"`
	To                string       `json:"to"`
	ToLocationID      *int         `json:"toLocationId"`
	StoreName         string       `json:"storeName,omitempty"`
	StopType          StopType     `json:"stopType"`
	Purpose           string       `json:"purpose"`
	Products          []string     `json:"products,omitempty"`
	Reasons           []string     `json:"reasons,omitempty"`
	EstimatedStopTime string       `json:"estimatedStopTime,omitempty"`
	ArrivalTime       *string      `json:"arrivalTime,omitempty"`
	Taxi              *SegmentFare `json:"taxi,omitempty"`
}

// JourneyPlan aggregates everything produced by one planning call.
type JourneyPlan struct {
	Original      string           `json:"original"`
	Weather       *WeatherSnapshot `json:"weather,omitempty"`
	Shopping      string           `json:"shopping,omitempty"`
	Stops         []RouteSegment   `json:"stops"`
	TotalCost     float64          `json:"totalCost"`
	TotalDistance float64          `json:"totalDistance"`
	TotalTime     int              `json:"totalTime"`
}

// AddFare attaches a fare to segment i and folds it into the totals.
func (p *JourneyPlan) AddFare(i int, fare SegmentFare) {
	p.Stops[i].Taxi = &fare
	p.TotalCost += fare.EstimatedCost
	p.TotalDistance += fare.Distance
	p.TotalTime += fare.Duration
}
