// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// then applies environment overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	// LLM_API_KEY overrides llm.api_key, AGENTS_TAXI_ASSISTANT_ID overrides agents.taxi.assistant_id
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking from the working directory
// towards the module root. Returns the path loaded, or "" when none was found.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// Direct override if secrets are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	for _, agent := range []*AgentConfig{&cfg.Agents.Shopper, &cfg.Agents.Taxi} {
		if agent.APIKey == "" {
			agent.APIKey = os.Getenv("AGENT_SERVICE_API_KEY")
		}
		if agent.BaseURL == "" {
			agent.BaseURL = os.Getenv("AGENT_SERVICE_ENDPOINT")
		}
	}
	if cfg.Agents.Shopper.AssistantID == "" {
		cfg.Agents.Shopper.AssistantID = os.Getenv("SHOPPER_AGENT_ID")
	}
	if cfg.Agents.Taxi.AssistantID == "" {
		cfg.Agents.Taxi.AssistantID = os.Getenv("TAXI_AGENT_ID")
	}

	if cfg.Database.Postgres.User == "" {
		cfg.Database.Postgres.User = os.Getenv("DB_USER")
	}
	if cfg.Database.Postgres.Password == "" {
		cfg.Database.Postgres.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Database.Redis.Password == "" {
		cfg.Database.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "trip-concierge"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.TurnTimeout == 0 {
		cfg.Server.TurnTimeout = 300000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.PoolSize == 0 {
		cfg.Database.Redis.PoolSize = 10
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.MaxOutputTokens == 0 {
		cfg.LLM.MaxOutputTokens = 1024
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60000
	}

	applyAgentDefaults(&cfg.Agents.Shopper, "shopper", "shopping")
	applyAgentDefaults(&cfg.Agents.Taxi, "taxi", "taxi")

	if cfg.Planning.TriggerPurposes == nil {
		cfg.Planning.TriggerPurposes = []string{"meeting", "interview", "event"}
	}
	if cfg.Planning.DefaultStartLocation == "" {
		cfg.Planning.DefaultStartLocation = "JFK Airport"
	}

	if cfg.Memory.Backend == "" {
		cfg.Memory.Backend = "lru"
	}
	if cfg.Memory.MaxConversations == 0 {
		cfg.Memory.MaxConversations = 1000
	}
	if cfg.Memory.MaxTurns == 0 {
		cfg.Memory.MaxTurns = 20
	}
	if cfg.Memory.TTL == 0 {
		cfg.Memory.TTL = 1800000
	}

	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "static"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

func applyAgentDefaults(agent *AgentConfig, name, noun string) {
	if agent.Name == "" {
		agent.Name = name
	}
	if agent.APIVersion == "" {
		agent.APIVersion = "2024-05-01-preview"
	}
	if agent.PollInterval == 0 {
		agent.PollInterval = 1000
	}
	if agent.MaxWait == 0 {
		agent.MaxWait = 90000
	}
	if agent.MaxRetries == 0 {
		agent.MaxRetries = 3
	}
	if agent.Timeout == 0 {
		agent.Timeout = 30000
	}
	if agent.FailureMessage == "" {
		agent.FailureMessage = fmt.Sprintf("Sorry, I encountered an error processing your %s request.", noun)
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Memory.Backend {
	case "lru":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when memory.backend is redis")
		}
	default:
		return fmt.Errorf("memory.backend must be lru or redis, got %q", cfg.Memory.Backend)
	}

	switch cfg.Catalog.Source {
	case "static":
	case "postgres":
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required when catalog.source is postgres")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required when catalog.source is postgres")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required when catalog.source is postgres")
		}
	default:
		return fmt.Errorf("catalog.source must be static or postgres, got %q", cfg.Catalog.Source)
	}

	for _, agent := range []AgentConfig{cfg.Agents.Shopper, cfg.Agents.Taxi} {
		if agent.CacheTTL > 0 && cfg.Database.Redis.Address == "" {
			return fmt.Errorf("agents.%s.cache_ttl requires database.redis.address", agent.Name)
		}
	}

	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Memory.Backend == "redis" || c.Agents.Shopper.CacheTTL > 0 || c.Agents.Taxi.CacheTTL > 0
}
