// internal/workers/planning/sequential-coordinator/handler.go
package sequentialcoordinator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trip-concierge/internal/common/fallback"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/observability"
	"trip-concierge/internal/models"
)

const (
	TaskType = "sequential-coordinator"
)

// ContextExtractor reads the composite-query context of a message.
type ContextExtractor interface {
	ExtractComplexQueryContext(ctx context.Context, message string) fallback.Result[models.QueryContext]
}

// WeatherProvider returns a forecast for a place and day.
type WeatherProvider interface {
	Forecast(ctx context.Context, location, date string) (*models.WeatherSnapshot, error)
}

// Agent is a text-in, text-out specialist.
type Agent interface {
	Query(ctx context.Context, text string) (string, error)
}

type Handler struct {
	config    *Config
	extractor ContextExtractor
	weather   WeatherProvider
	shopper   Agent
	taxi      Agent
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, extractor ContextExtractor, weather WeatherProvider, shopper, taxi Agent, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		extractor: extractor,
		weather:   weather,
		shopper:   shopper,
		taxi:      taxi,
		obs:       obs,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// Handle answers a message that needs weather, shopping and transport chained.
// ok is false when the message is not a composite query.
func (h *Handler) Handle(ctx context.Context, message string) (string, bool) {
	out := h.Execute(ctx, &Input{Message: message})
	return out.Text, out.Handled
}

func (h *Handler) Execute(ctx context.Context, input *Input) *Output {
	res := h.extractor.ExtractComplexQueryContext(ctx, input.Message)
	if !res.Value.RequiresMultiAgent {
		return &Output{Handled: false}
	}

	qc := res.Value
	h.logger.Info("multi-agent chain started", map[string]interface{}{
		"location":       models.StringOr(qc.Location, ""),
		"date":           models.StringOr(qc.Date, ""),
		"needsTransport": qc.NeedsTransport,
	})

	results := &ChainResult{Original: input.Message, Context: qc}

	// Step 1: weather, only when we know where and when
	if qc.Location != nil && qc.Date != nil {
		h.step(ctx, "weather", func() {
			w, err := h.weather.Forecast(ctx, *qc.Location, *qc.Date)
			if err != nil {
				h.logger.Warn("weather step failed", map[string]interface{}{"error": err.Error()})
				return
			}
			results.Weather = w
		})
	}

	// Step 2: shopping, shaped by the weather
	if results.Weather != nil {
		h.step(ctx, "shopping", func() {
			text := h.ask(ctx, h.shopper, "shopper", buildShoppingPrompt(qc, results.Weather), h.config.ShoppingUnavailable)
			results.Shopping = &text
		})
	}

	// Step 3: transport
	if qc.NeedsTransport {
		h.step(ctx, "transport", func() {
			text := h.ask(ctx, h.taxi, "taxi", buildTaxiPrompt(qc, results.Weather), h.config.TransportUnavailable)
			results.Taxi = &text
		})
	}

	return &Output{
		Handled: true,
		Results: results,
		Text:    h.synthesize(results),
	}
}

// ask queries one specialist; a failure is replaced by the placeholder so the
// other sections still get delivered.
func (h *Handler) ask(ctx context.Context, agent Agent, name, prompt, placeholder string) string {
	h.logger.Debug("specialist query", map[string]interface{}{
		"agent":  name,
		"prompt": prompt,
	})

	reply, err := agent.Query(ctx, prompt)
	if err != nil {
		h.logger.Warn("specialist failed, using placeholder", map[string]interface{}{
			"agent": name,
			"error": err.Error(),
		})
		return placeholder
	}
	return reply
}

func (h *Handler) step(ctx context.Context, name string, fn func()) {
	start := time.Now()
	fn()
	h.obs.RecordStep(ctx, TaskType, name, time.Since(start))
}

func (h *Handler) synthesize(r *ChainResult) string {
	sections := []string{
		"📋 **Complete Plan for Your Request**\n",
		"Original request: \"" + r.Original + "\"\n",
	}

	if w := r.Weather; w != nil {
		sections = append(sections,
			"---",
			"☁️ **Weather Forecast**",
			"Location: "+w.Location,
			"Date: "+w.Date,
			"Condition: "+string(w.Condition),
			fmt.Sprintf("Temperature: %d°F", w.TemperatureF),
		)
		if w.PrecipitationPct > h.config.PrecipitationNoteAbove {
			sections = append(sections, fmt.Sprintf("Precipitation: %d%% chance", w.PrecipitationPct))
		}
		sections = append(sections, "")
	}

	if r.Shopping != nil {
		sections = append(sections, "---", "🛍️ **Shopping Recommendations**", *r.Shopping, "")
	}

	if r.Taxi != nil {
		sections = append(sections, "---", "🚕 **Transportation Information**", *r.Taxi, "")
	}

	return strings.Join(sections, "\n")
}
