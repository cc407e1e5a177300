// internal/workers/planning/journey-planner/handler.go
package journeyplanner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"trip-concierge/internal/common/fallback"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/observability"
	"trip-concierge/internal/models"
)

const (
	TaskType = "journey-planner"
)

// JourneyExtractor reads the multi-stop journey context of a message.
type JourneyExtractor interface {
	ExtractJourneyContext(ctx context.Context, message string) fallback.Result[models.JourneyContext]
}

// WeatherProvider returns a forecast for a place and day.
type WeatherProvider interface {
	Forecast(ctx context.Context, location, date string) (*models.WeatherSnapshot, error)
}

// Agent is a text-in, text-out specialist.
type Agent interface {
	Query(ctx context.Context, text string) (string, error)
}

// Catalog is the part of the store/zone catalog the planner reads.
type Catalog interface {
	StoreLister
	ZoneResolver
}

type Handler struct {
	config    *Config
	extractor JourneyExtractor
	weather   WeatherProvider
	shopper   Agent
	taxi      Agent
	stores    StoreLister
	zones     ZoneResolver
	fares     FareParser
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, extractor JourneyExtractor, weather WeatherProvider, shopper, taxi Agent, catalog Catalog, fares FareParser, obs *observability.Observability, log logger.Logger) *Handler {
	if fares == nil {
		fares = NewRegexFareParser()
	}
	return &Handler{
		config:    config,
		extractor: extractor,
		weather:   weather,
		shopper:   shopper,
		taxi:      taxi,
		stores:    catalog,
		zones:     catalog,
		fares:     fares,
		obs:       obs,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Handle plans a multi-stop journey. ok is false when the message is not one.
func (h *Handler) Handle(ctx context.Context, message string) (string, bool) {
	out := h.Execute(ctx, &Input{Message: message})
	return out.Text, out.Handled
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	res := h.extractor.ExtractJourneyContext(ctx, input.Message)
	jc := res.Value
	if !jc.RequiresMultiStop {
		return &Output{Handled: false, Context: jc}
	}

	h.logger.Info("multi-stop journey detected", map[string]interface{}{
		"destination": jc.MainDestination,
		"start":       models.StringOr(jc.StartLocation, h.config.DefaultStartLocation),
		"purpose":     string(jc.Purpose),
	})

	plan := &models.JourneyPlan{Original: input.Message}

	// Step 1: weather at the destination
	h.step(ctx, "weather", func() {
		w, err := h.weather.Forecast(ctx, jc.MainDestination, jc.Date)
		if err != nil {
			h.logger.Warn("weather step failed", map[string]interface{}{"error": err.Error()})
			return
		}
		plan.Weather = w
	})

	// Step 2: what to buy
	h.step(ctx, "shopping", func() {
		reply, err := h.shopper.Query(ctx, buildShoppingPrompt(jc, plan.Weather))
		if err != nil {
			h.logger.Warn("shopping step failed", map[string]interface{}{"error": err.Error()})
			reply = h.config.ShoppingUnavailable
		}
		plan.Shopping = reply
	})

	// Step 3: where to buy it, and the route through there
	var stops []models.ShoppingStop
	h.step(ctx, "route", func() {
		stops = ExtractStops(plan.Shopping, h.stores)
		plan.Stops = h.BuildRoute(jc, stops)
	})

	h.logger.Info("route built", map[string]interface{}{
		"shoppingCategories": len(stops),
		"segments":           len(plan.Stops),
	})

	// Step 4: fare per segment
	h.step(ctx, "fares", func() {
		for i := range plan.Stops {
			plan.AddFare(i, h.segmentFare(ctx, plan.Stops[i]))
		}
	})

	return &Output{
		Handled: true,
		Context: jc,
		Plan:    plan,
		Text:    h.synthesize(plan),
	}
}

func (h *Handler) segmentFare(ctx context.Context, seg models.RouteSegment) models.SegmentFare {
	reply, err := h.taxi.Query(ctx, buildFarePrompt(seg, h.zones.ZoneName))
	if err != nil {
		h.logger.Warn("fare lookup failed", map[string]interface{}{
			"segment": seg.SegmentNumber,
			"error":   err.Error(),
		})
		return models.SegmentFare{FareData: h.config.FareUnavailable}
	}

	fare := h.fares.Parse(reply)
	h.logger.Debug("segment fare", map[string]interface{}{
		"segment":  seg.SegmentNumber,
		"from":     seg.From,
		"to":       seg.To,
		"cost":     fare.EstimatedCost,
		"distance": fare.Distance,
		"duration": fare.Duration,
	})
	return fare
}

func (h *Handler) step(ctx context.Context, name string, fn func()) {
	start := time.Now()
	fn()
	h.obs.RecordStep(ctx, TaskType, name, time.Since(start))
}

func (h *Handler) synthesize(plan *models.JourneyPlan) string {
	sections := []string{
		"🗺️ **Complete Multi-Stop Journey Plan**\n",
		"Original request: \"" + plan.Original + "\"\n",
	}

	if w := plan.Weather; w != nil {
		sections = append(sections,
			"---",
			"☁️ **Weather Forecast**",
			"Condition: "+string(w.Condition),
			fmt.Sprintf("Temperature: %d°F", w.TemperatureF),
		)
		if w.PrecipitationPct > h.config.PrecipitationNoteAbove {
			sections = append(sections, fmt.Sprintf("Precipitation: %d%% chance", w.PrecipitationPct))
		}
		sections = append(sections, "")
	}

	if plan.Shopping != "" {
		sections = append(sections, "---", "🛍️ **Shopping Recommendations**", plan.Shopping, "")
	}

	sections = append(sections, "---", "🚕 **Journey Itinerary with Shopping Stops**", "")

	for _, stop := range plan.Stops {
		icon := "📍"
		if stop.StopType == models.StopShopping {
			icon = "🛍️"
		}
		sections = append(sections, fmt.Sprintf("%s **Segment %d: %s → %s**", icon, stop.SegmentNumber, stop.From, stop.To))

		if stop.StoreName != "" {
			sections = append(sections, "   Store: "+stop.StoreName)
		}
		sections = append(sections, "   Purpose: "+stop.Purpose)
		if len(stop.Products) > 0 {
			sections = append(sections, "   Products to buy: "+strings.Join(stop.Products, ", "))
		}
		if stop.Taxi != nil && stop.Taxi.FareData != "" {
			sections = append(sections, "   "+stop.Taxi.FareData)
		}
		if stop.EstimatedStopTime != "" {
			sections = append(sections, "   Stop duration: "+stop.EstimatedStopTime)
		}
		sections = append(sections, "")
	}

	sections = append(sections,
		"---",
		"📊 **Journey Summary**",
		fmt.Sprintf("Total Segments: %d", len(plan.Stops)),
		fmt.Sprintf("Estimated Total Cost: $%.2f", plan.TotalCost),
		fmt.Sprintf("Total Distance: %.1f miles", plan.TotalDistance),
		fmt.Sprintf("Total Travel Time: ~%d minutes", plan.TotalTime),
	)

	if len(plan.Stops) > 1 {
		early := int(math.Round(float64(plan.TotalTime) * h.config.DepartureFactor))
		sections = append(sections, fmt.Sprintf("\n💡 **Tip:** Consider leaving %d minutes early to account for shopping stops and traffic.", early))
	}

	return strings.Join(sections, "\n")
}
