// internal/workers/agents/specialist-agent/config.go
package specialistagent

import (
	"time"

	"trip-concierge/internal/common/config"
)

type Config struct {
	Name           string
	BaseURL        string
	APIKey         string
	APIVersion     string
	AssistantID    string
	PollInterval   time.Duration
	MaxWait        time.Duration
	Timeout        time.Duration
	MaxRetries     int
	FailureMessage string
	CacheTTL       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		APIVersion:   "2024-05-01-preview",
		PollInterval: 1 * time.Second,
		MaxWait:      90 * time.Second,
		Timeout:      30 * time.Second,
		MaxRetries:   3,
	}
}

// FromAgentConfig converts the millisecond-based file config for one specialist.
func FromAgentConfig(ac config.AgentConfig) *Config {
	cfg := LoadConfig()
	cfg.Name = ac.Name
	cfg.BaseURL = ac.BaseURL
	cfg.APIKey = ac.APIKey
	cfg.AssistantID = ac.AssistantID
	cfg.FailureMessage = ac.FailureMessage
	cfg.MaxRetries = ac.MaxRetries
	if ac.APIVersion != "" {
		cfg.APIVersion = ac.APIVersion
	}
	if ac.PollInterval > 0 {
		cfg.PollInterval = config.GetDuration(ac.PollInterval)
	}
	if ac.MaxWait > 0 {
		cfg.MaxWait = config.GetDuration(ac.MaxWait)
	}
	if ac.Timeout > 0 {
		cfg.Timeout = config.GetDuration(ac.Timeout)
	}
	cfg.CacheTTL = config.GetDuration(ac.CacheTTL)
	if cfg.FailureMessage == "" {
		cfg.FailureMessage = "Sorry, I encountered an error processing your " + cfg.Name + " request."
	}
	return cfg
}
