// internal/workers/agents/weather-forecast/handler.go

// Package weatherforecast produces the WeatherSnapshot consumed by the
// coordinator, the journey planner and the weather chat. The values are
// placeholders; a real provider plugs in behind each consumer's interface.
package weatherforecast

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/models"
)

const (
	TaskType = "weather-forecast"
)

var ErrMissingLocation = errors.New("MISSING_LOCATION")

type Handler struct {
	config *Config
	mu     sync.Mutex
	rng    *rand.Rand
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Handler{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Forecast(ctx context.Context, location, date string) (*models.WeatherSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrMissingLocation
	}

	span := h.config.TemperatureSpan
	if span <= 0 {
		span = 1
	}

	h.mu.Lock()
	snap := &models.WeatherSnapshot{
		Location:         location,
		Date:             date,
		TemperatureF:     h.config.MinTemperatureF + h.rng.Intn(span),
		Condition:        models.Conditions[h.rng.Intn(len(models.Conditions))],
		PrecipitationPct: h.rng.Intn(100),
	}
	h.mu.Unlock()

	h.logger.Info("forecast generated", map[string]interface{}{
		"location":      snap.Location,
		"date":          snap.Date,
		"condition":     string(snap.Condition),
		"temperatureF":  snap.TemperatureF,
		"precipitation": snap.PrecipitationPct,
	})
	return snap, nil
}
