// internal/workers/agents/weather-forecast/handler_test.go
package weatherforecast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/models"
)

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.Seed = 42
	return cfg
}

func TestHandler_Forecast_Ranges(t *testing.T) {
	h := NewHandler(createTestConfig(), logger.NewNoOpLogger())
	seen := map[models.Condition]bool{}

	for i := 0; i < 500; i++ {
		snap, err := h.Forecast(context.Background(), "Boston", "tomorrow")
		require.NoError(t, err)

		assert.Equal(t, "Boston", snap.Location)
		assert.Equal(t, "tomorrow", snap.Date)
		assert.GreaterOrEqual(t, snap.TemperatureF, 20)
		assert.LessOrEqual(t, snap.TemperatureF, 49)
		assert.GreaterOrEqual(t, snap.PrecipitationPct, 0)
		assert.LessOrEqual(t, snap.PrecipitationPct, 100)
		assert.Contains(t, models.Conditions, snap.Condition)
		seen[snap.Condition] = true
	}
	assert.Len(t, seen, len(models.Conditions))
}

func TestHandler_Forecast_SeedIsDeterministic(t *testing.T) {
	a := NewHandler(createTestConfig(), logger.NewNoOpLogger())
	b := NewHandler(createTestConfig(), logger.NewNoOpLogger())

	for i := 0; i < 10; i++ {
		x, err := a.Forecast(context.Background(), "Midtown", "today")
		require.NoError(t, err)
		y, err := b.Forecast(context.Background(), "Midtown", "today")
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestHandler_Forecast_Errors(t *testing.T) {
	h := NewHandler(createTestConfig(), logger.NewTestLogger(t))

	_, err := h.Forecast(context.Background(), "  ", "today")
	assert.ErrorIs(t, err, ErrMissingLocation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.Forecast(ctx, "Boston", "today")
	assert.ErrorIs(t, err, context.Canceled)
}
