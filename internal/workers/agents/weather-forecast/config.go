// internal/workers/agents/weather-forecast/config.go
package weatherforecast

type Config struct {
	MinTemperatureF int
	// temperatures are drawn from [MinTemperatureF, MinTemperatureF+TemperatureSpan)
	TemperatureSpan int
	// Seed fixes the generator; 0 seeds from the clock.
	Seed int64
}

func LoadConfig() *Config {
	return &Config{
		MinTemperatureF: 20,
		TemperatureSpan: 30,
	}
}
