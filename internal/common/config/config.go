// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Agents   AgentsConfig   `mapstructure:"agents"`
	Planning PlanningConfig `mapstructure:"planning"`
	Memory   MemoryConfig   `mapstructure:"memory"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	TurnTimeout     int    `mapstructure:"turn_timeout"`     // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// --- Language model ---

// LLMConfig holds settings for the routing/extraction/chat model.
type LLMConfig struct {
	BaseURL         string  `mapstructure:"base_url"`
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
	Timeout         int     `mapstructure:"timeout"` // milliseconds
}

// --- Specialist agents ---

// AgentsConfig holds one entry per specialist backend.
type AgentsConfig struct {
	Shopper AgentConfig `mapstructure:"shopper"`
	Taxi    AgentConfig `mapstructure:"taxi"`
}

// AgentConfig describes how to reach one assistant on the agent-execution service.
type AgentConfig struct {
	Name           string `mapstructure:"name"`
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	APIVersion     string `mapstructure:"api_version"`
	AssistantID    string `mapstructure:"assistant_id"`
	PollInterval   int    `mapstructure:"poll_interval"` // milliseconds
	MaxWait        int    `mapstructure:"max_wait"`      // milliseconds
	MaxRetries     int    `mapstructure:"max_retries"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds, per HTTP call
	FailureMessage string `mapstructure:"failure_message"`
	CacheTTL       int    `mapstructure:"cache_ttl"` // milliseconds, 0 disables the reply cache
}

// --- Planning ---

// PlanningConfig holds settings for the coordinator and journey planner.
type PlanningConfig struct {
	TriggerPurposes      []string `mapstructure:"trigger_purposes"`
	DefaultStartLocation string   `mapstructure:"default_start_location"`
}

// MemoryConfig selects the conversation memory backend for the weather chat.
type MemoryConfig struct {
	Backend          string `mapstructure:"backend"` // lru | redis
	MaxConversations int    `mapstructure:"max_conversations"`
	MaxTurns         int    `mapstructure:"max_turns"`
	TTL              int    `mapstructure:"ttl"` // milliseconds
}

// CatalogConfig selects where store and zone data comes from.
type CatalogConfig struct {
	Source string `mapstructure:"source"` // static | postgres
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
