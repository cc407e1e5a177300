// internal/dispatcher/dispatcher.go

// Package dispatcher handles one user turn: it tries a multi-stop journey,
// then a multi-agent chain, then a single specialist, and finally the default
// weather conversation. The first interpretation that produces a reply wins.
package dispatcher

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/metrics"
	"trip-concierge/internal/common/observability"
	"trip-concierge/internal/models"
)

var ErrEmptyMessage = errors.New("EMPTY_MESSAGE")

// Planner handles a message if it recognises it; ok reports whether it did.
type Planner interface {
	Handle(ctx context.Context, message string) (text string, ok bool)
}

type Classifier interface {
	Classify(ctx context.Context, message string) models.AgentType
}

type Agent interface {
	Query(ctx context.Context, text string) (string, error)
}

type WeatherChat interface {
	Reply(ctx context.Context, conversationID, text string) *models.Reply
}

// ZoneHinter appends zone-id hints for places mentioned in a taxi question.
type ZoneHinter interface {
	EnhanceQuery(query string) string
}

type Config struct {
	TurnTimeout    time.Duration
	Welcome        string
	ShopperApology string
	TaxiApology    string
}

func DefaultConfig() *Config {
	return &Config{
		TurnTimeout:    5 * time.Minute,
		Welcome:        "Hello and Welcome! I can help you with weather forecasts, shopping recommendations, and taxi services!",
		ShopperApology: "Sorry, I encountered an error with the shopping agent. Please try again.",
		TaxiApology:    "Sorry, I encountered an error with the taxi agent. Please try again.",
	}
}

// Components are the collaborators of a Dispatcher. Journey and Coordinator
// may be nil to disable those stages.
type Components struct {
	Journey     Planner
	Coordinator Planner
	Classifier  Classifier
	Shopper     Agent
	Taxi        Agent
	Weather     WeatherChat
	Zones       ZoneHinter
}

type Dispatcher struct {
	config *Config
	c      Components
	obs    *observability.Observability
	logger logger.Logger
}

func New(config *Config, c Components, obs *observability.Observability, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		config: config,
		c:      c,
		obs:    obs,
		logger: logger.ForComponent(log, "dispatcher"),
	}
}

// Welcome is the greeting sent when a conversation starts.
func (d *Dispatcher) Welcome() *models.Reply {
	return models.TextReply(models.RouteWeather, d.config.Welcome)
}

// Handle produces exactly one reply for a message.
func (d *Dispatcher) Handle(ctx context.Context, msg models.InboundMessage) (*models.Reply, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	if d.config.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.TurnTimeout)
		defer cancel()
	}

	turnID := uuid.NewString()
	log := d.logger.With(map[string]interface{}{
		"conversationId": msg.ConversationID,
		"turnId":         turnID,
	})

	metrics.TurnsActive.Inc()
	defer metrics.TurnsActive.Dec()
	start := time.Now()

	reply := d.route(ctx, msg.ConversationID, text, log)

	metrics.TurnsTotal.WithLabelValues(string(reply.Route)).Inc()
	d.obs.RecordTurn(ctx, string(reply.Route), time.Since(start), ctx.Err() != nil)
	log.Info("turn handled", map[string]interface{}{
		"route":       string(reply.Route),
		"contentType": string(reply.ContentType),
		"duration":    time.Since(start).String(),
	})
	return reply, nil
}

func (d *Dispatcher) route(ctx context.Context, conversationID, text string, log logger.Logger) *models.Reply {
	if d.c.Journey != nil {
		if out, ok := d.c.Journey.Handle(ctx, text); ok {
			return models.TextReply(models.RouteJourney, out)
		}
	}

	if d.c.Coordinator != nil {
		if out, ok := d.c.Coordinator.Handle(ctx, text); ok {
			return models.TextReply(models.RouteCoordinator, out)
		}
	}

	agent := d.c.Classifier.Classify(ctx, text)
	log.Debug("routing to agent", map[string]interface{}{"agent": string(agent)})

	switch agent {
	case models.AgentShopper:
		return d.ask(ctx, d.c.Shopper, text, models.RouteShopper, d.config.ShopperApology, log)
	case models.AgentTaxi:
		query := text
		if d.c.Zones != nil {
			query = d.c.Zones.EnhanceQuery(text)
		}
		return d.ask(ctx, d.c.Taxi, query, models.RouteTaxi, d.config.TaxiApology, log)
	default:
		return d.c.Weather.Reply(ctx, conversationID, text)
	}
}

func (d *Dispatcher) ask(ctx context.Context, agent Agent, query string, route models.Route, apology string, log logger.Logger) *models.Reply {
	reply, err := agent.Query(ctx, query)
	if err != nil {
		fields := apperrors.LogFields(err)
		fields["route"] = string(route)
		log.Error("specialist failed", fields)
		return models.TextReply(route, apology)
	}
	return models.TextReply(route, reply)
}
