// internal/workers/routing/extract-context/config.go
package extractcontext

import "time"

type Config struct {
	Timeout time.Duration
	// TriggerPurposes are the purposes that always make a journey multi-stop.
	// Empty disables the bias.
	TriggerPurposes []string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         30 * time.Second,
		TriggerPurposes: []string{"meeting", "interview", "event"},
	}
}
