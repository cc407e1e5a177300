// internal/workers/agents/weather-chat/config.go
package weatherchat

import "time"

type Config struct {
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int
	MaxToolRounds   int
	FailureMessage  string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         60 * time.Second,
		Temperature:     0,
		MaxOutputTokens: 1024,
		MaxToolRounds:   4,
		FailureMessage:  "Sorry, I couldn't get a weather answer right now. Please try again.",
	}
}
