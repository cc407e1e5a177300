// internal/app/app.go

// Package app builds the concierge from configuration and wires every
// pipeline into one Dispatcher.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-concierge/internal/catalog"
	"trip-concierge/internal/common/config"
	"trip-concierge/internal/common/database"
	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/observability"
	"trip-concierge/internal/dispatcher"
	"trip-concierge/internal/server"

	specialist "trip-concierge/internal/workers/agents/specialist-agent"
	weatherchat "trip-concierge/internal/workers/agents/weather-chat"
	weatherforecast "trip-concierge/internal/workers/agents/weather-forecast"
	journey "trip-concierge/internal/workers/planning/journey-planner"
	coordinator "trip-concierge/internal/workers/planning/sequential-coordinator"
	classify "trip-concierge/internal/workers/routing/classify-intent"
	extract "trip-concierge/internal/workers/routing/extract-context"
)

const (
	connectRetries    = 10
	connectRetryDelay = 2 * time.Second
	llmMaxRetries     = 2
)

// App owns the dispatcher and every connection behind it.
type App struct {
	Dispatcher *dispatcher.Dispatcher
	Checks     map[string]server.Check
	Obs        *observability.Observability

	closers []func() error
	logger  logger.Logger
}

// Deps are the externally created collaborators Assemble needs.
type Deps struct {
	Provider llm.Provider
	Catalog  catalog.Catalog
	// Redis may be nil when neither the reply cache nor Redis memory is configured.
	Redis redis.Cmdable
	Obs   *observability.Observability
}

// Build connects to everything cfg asks for and assembles the dispatcher.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		Checks: make(map[string]server.Check),
		logger: logger.ForComponent(log, "app"),
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		a.logger.Warn("OpenTelemetry meter unavailable, turn instruments disabled", map[string]interface{}{"error": err.Error()})
	}
	a.Obs = obs

	deps := Deps{Obs: obs}

	if needsRedis(cfg) {
		rc := database.NewRedis(cfg.Database.Redis)
		err := database.RetryWithBackoff(ctx, rc.Ping, connectRetries, connectRetryDelay, log, "Redis connection")
		if err != nil {
			rc.Close()
			a.Close()
			return nil, err
		}
		a.logger.Info("Redis connected successfully", map[string]interface{}{"address": cfg.Database.Redis.Address})
		a.closers = append(a.closers, rc.Close)
		a.Checks["redis"] = rc.Ping
		deps.Redis = rc.Client
	}

	cat, err := a.loadCatalog(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	deps.Catalog = cat

	provider, err := llm.NewOpenAIProvider(cfg.LLM, llmMaxRetries)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("language model: %w", err)
	}
	deps.Provider = provider

	a.Dispatcher = Assemble(cfg, deps, log)
	return a, nil
}

func (a *App) loadCatalog(ctx context.Context, cfg *config.Config, log logger.Logger) (catalog.Catalog, error) {
	if cfg.Catalog.Source != "postgres" {
		snap := catalog.Static()
		a.logger.Info("using built-in catalog", map[string]interface{}{
			"zones":  snap.ZoneCount(),
			"stores": snap.StoreCount(),
		})
		return snap, nil
	}

	var pg *database.PostgresClient
	err := database.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var err error
		if pg == nil {
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
		}
		return pg.Ping(ctx)
	}, connectRetries, connectRetryDelay, log, "PostgreSQL connection")
	if err != nil {
		if pg != nil {
			pg.Close()
		}
		return nil, err
	}
	a.closers = append(a.closers, pg.Close)
	a.Checks["postgres"] = pg.Ping

	snap, err := catalog.LoadPostgres(ctx, pg.DB)
	if err != nil {
		return nil, err
	}
	a.logger.Info("catalog loaded from PostgreSQL", map[string]interface{}{
		"zones":  snap.ZoneCount(),
		"stores": snap.StoreCount(),
	})
	return snap, nil
}

// Close releases connections in reverse order and flushes the meter.
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Obs.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Assemble wires every pipeline onto the given collaborators.
func Assemble(cfg *config.Config, deps Deps, log logger.Logger) *dispatcher.Dispatcher {
	classifyCfg := classify.LoadConfig()
	if cfg.LLM.Timeout > 0 {
		classifyCfg.Timeout = config.GetDuration(cfg.LLM.Timeout)
	}
	classifier := classify.NewHandler(classifyCfg, deps.Provider, &classifyIntentLoggerAdapter{log})

	extractCfg := extract.LoadConfig()
	if cfg.LLM.Timeout > 0 {
		extractCfg.Timeout = config.GetDuration(cfg.LLM.Timeout)
	}
	extractCfg.TriggerPurposes = cfg.Planning.TriggerPurposes
	extractor := extract.NewHandler(extractCfg, deps.Provider, log)

	forecaster := weatherforecast.NewHandler(weatherforecast.LoadConfig(), log)

	shopper := specialistAgent(cfg.Agents.Shopper, deps.Redis, log)
	taxi := specialistAgent(cfg.Agents.Taxi, deps.Redis, log)

	coordinatorHandler := coordinator.NewHandler(coordinator.LoadConfig(), extractor, forecaster, shopper, taxi, deps.Obs, log)

	journeyCfg := journey.LoadConfig()
	if cfg.Planning.DefaultStartLocation != "" {
		journeyCfg.DefaultStartLocation = cfg.Planning.DefaultStartLocation
	}
	journeyHandler := journey.NewHandler(journeyCfg, extractor, forecaster, shopper, taxi, deps.Catalog, nil, deps.Obs, log)

	chatCfg := weatherchat.LoadConfig()
	chatCfg.Temperature = cfg.LLM.Temperature
	if cfg.LLM.MaxOutputTokens > 0 {
		chatCfg.MaxOutputTokens = cfg.LLM.MaxOutputTokens
	}
	if cfg.LLM.Timeout > 0 {
		chatCfg.Timeout = config.GetDuration(cfg.LLM.Timeout)
	}
	chat := weatherchat.NewHandler(chatCfg, deps.Provider, forecaster, conversationMemory(cfg.Memory, deps.Redis), log)

	dispatchCfg := dispatcher.DefaultConfig()
	if cfg.Server.TurnTimeout > 0 {
		dispatchCfg.TurnTimeout = config.GetDuration(cfg.Server.TurnTimeout)
	}

	return dispatcher.New(dispatchCfg, dispatcher.Components{
		Journey:     journeyHandler,
		Coordinator: coordinatorHandler,
		Classifier:  classifier,
		Shopper:     shopper,
		Taxi:        taxi,
		Weather:     chat,
		Zones:       deps.Catalog,
	}, deps.Obs, log)
}

// specialistAgent returns the gateway for one assistant, behind the Redis
// reply cache when a TTL is configured.
func specialistAgent(ac config.AgentConfig, rdb redis.Cmdable, log logger.Logger) specialist.Agent {
	agentCfg := specialist.FromAgentConfig(ac)
	handler := specialist.NewHandler(agentCfg, log)
	if agentCfg.CacheTTL > 0 && rdb != nil {
		return specialist.NewCachedAgent(handler, rdb, agentCfg.CacheTTL, log)
	}
	return handler
}

func conversationMemory(mc config.MemoryConfig, rdb redis.Cmdable) weatherchat.Memory {
	ttl := config.GetDuration(mc.TTL)
	if mc.Backend == "redis" && rdb != nil {
		return weatherchat.NewRedisMemory(rdb, mc.MaxTurns, ttl)
	}
	return weatherchat.NewLRUMemory(mc.MaxConversations, mc.MaxTurns, ttl)
}

func needsRedis(cfg *config.Config) bool {
	return cfg.Memory.Backend == "redis" ||
		cfg.Agents.Shopper.CacheTTL > 0 ||
		cfg.Agents.Taxi.CacheTTL > 0
}

type classifyIntentLoggerAdapter struct {
	logger.Logger
}

func (a *classifyIntentLoggerAdapter) With(fields map[string]interface{}) classify.Logger {
	return &classifyIntentLoggerAdapter{a.Logger.With(fields)}
}
