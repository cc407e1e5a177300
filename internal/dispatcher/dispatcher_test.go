// internal/dispatcher/dispatcher_test.go
package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trip-concierge/internal/catalog"
	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/models"
)

// ==========================
// Test doubles
// ==========================

type stubPlanner struct {
	text  string
	ok    bool
	calls int
}

func (s *stubPlanner) Handle(ctx context.Context, message string) (string, bool) {
	s.calls++
	return s.text, s.ok
}

type stubClassifier struct {
	agent models.AgentType
	calls int
}

func (s *stubClassifier) Classify(ctx context.Context, message string) models.AgentType {
	s.calls++
	return s.agent
}

type stubAgent struct {
	reply string
	err   error
	got   []string
}

func (a *stubAgent) Query(ctx context.Context, text string) (string, error) {
	a.got = append(a.got, text)
	return a.reply, a.err
}

type stubWeather struct {
	conversations []string
	deadline      bool
}

func (w *stubWeather) Reply(ctx context.Context, conversationID, text string) *models.Reply {
	w.conversations = append(w.conversations, conversationID)
	_, w.deadline = ctx.Deadline()
	return models.TextReply(models.RouteWeather, "It's sunny.")
}

type fixture struct {
	journey     *stubPlanner
	coordinator *stubPlanner
	classifier  *stubClassifier
	shopper     *stubAgent
	taxi        *stubAgent
	weather     *stubWeather
}

func newFixture() *fixture {
	return &fixture{
		journey:     &stubPlanner{},
		coordinator: &stubPlanner{},
		classifier:  &stubClassifier{agent: models.AgentWeather},
		shopper:     &stubAgent{reply: "Try the umbrella at Macy's."},
		taxi:        &stubAgent{reply: "About $52."},
		weather:     &stubWeather{},
	}
}

func (f *fixture) dispatcher(t *testing.T) *Dispatcher {
	return New(DefaultConfig(), Components{
		Journey:     f.journey,
		Coordinator: f.coordinator,
		Classifier:  f.classifier,
		Shopper:     f.shopper,
		Taxi:        f.taxi,
		Weather:     f.weather,
		Zones:       catalog.Static(),
	}, nil, logger.NewTestLogger(t))
}

func turn(text string) models.InboundMessage {
	return models.InboundMessage{ConversationID: "conv-1", Text: text}
}

// ==========================
// Routing order
// ==========================

func TestDispatcher_JourneyWins(t *testing.T) {
	f := newFixture()
	f.journey.ok, f.journey.text = true, "journey plan"
	f.coordinator.ok = true

	reply, err := f.dispatcher(t).Handle(context.Background(), turn("interview in Midtown tomorrow"))
	require.NoError(t, err)

	assert.Equal(t, models.RouteJourney, reply.Route)
	assert.Equal(t, "journey plan", reply.Text)
	assert.Zero(t, f.coordinator.calls)
	assert.Zero(t, f.classifier.calls)
}

func TestDispatcher_CoordinatorAfterJourney(t *testing.T) {
	f := newFixture()
	f.coordinator.ok, f.coordinator.text = true, "chained plan"

	reply, err := f.dispatcher(t).Handle(context.Background(), turn("meeting in Boston tomorrow"))
	require.NoError(t, err)

	assert.Equal(t, models.RouteCoordinator, reply.Route)
	assert.Equal(t, "chained plan", reply.Text)
	assert.Equal(t, 1, f.journey.calls)
	assert.Zero(t, f.classifier.calls)
}

func TestDispatcher_SingleSpecialists(t *testing.T) {
	t.Run("shopper", func(t *testing.T) {
		f := newFixture()
		f.classifier.agent = models.AgentShopper

		reply, err := f.dispatcher(t).Handle(context.Background(), turn("where can I buy an umbrella"))
		require.NoError(t, err)
		assert.Equal(t, models.RouteShopper, reply.Route)
		assert.Equal(t, "Try the umbrella at Macy's.", reply.Text)
		assert.Equal(t, []string{"where can I buy an umbrella"}, f.shopper.got)
		assert.Empty(t, f.weather.conversations)
	})

	t.Run("taxi gets zone hints", func(t *testing.T) {
		f := newFixture()
		f.classifier.agent = models.AgentTaxi

		reply, err := f.dispatcher(t).Handle(context.Background(), turn("cab from JFK to Times Square?"))
		require.NoError(t, err)
		assert.Equal(t, models.RouteTaxi, reply.Route)
		assert.Equal(t, "About $52.", reply.Text)
		require.Len(t, f.taxi.got, 1)
		assert.Contains(t, f.taxi.got[0], "cab from JFK to Times Square?")
		assert.Contains(t, f.taxi.got[0], `[Hint: "jfk" is LocationID 136]`)
	})
}

func TestDispatcher_SpecialistErrorsBecomeApologies(t *testing.T) {
	tests := []struct {
		agent models.AgentType
		want  string
	}{
		{models.AgentShopper, "Sorry, I encountered an error with the shopping agent. Please try again."},
		{models.AgentTaxi, "Sorry, I encountered an error with the taxi agent. Please try again."},
	}

	for _, tt := range tests {
		t.Run(string(tt.agent), func(t *testing.T) {
			f := newFixture()
			f.classifier.agent = tt.agent
			f.shopper.err = errors.New("AGENT_TRANSPORT_FAILED")
			f.taxi.err = errors.New("AGENT_POLL_TIMEOUT")

			reply, err := f.dispatcher(t).Handle(context.Background(), turn("question"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Text)
		})
	}
}

func TestDispatcher_SpecialistFailureLogsErrorCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := newFixture()
	f.classifier.agent = models.AgentTaxi
	f.taxi.err = apperrors.NewAgentPollTimeoutError("taxi", 90*time.Second)

	d := New(DefaultConfig(), Components{
		Journey:     f.journey,
		Coordinator: f.coordinator,
		Classifier:  f.classifier,
		Shopper:     f.shopper,
		Taxi:        f.taxi,
		Weather:     f.weather,
		Zones:       catalog.Static(),
	}, nil, logger.NewZapAdapter(zap.New(core)))

	_, err := d.Handle(context.Background(), turn("fare to jfk?"))
	require.NoError(t, err)

	entries := logs.FilterMessage("specialist failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "AGENT", fields["category"])
	assert.Equal(t, string(apperrors.ErrCodeAgentPollTimeout), fields["code"])
	assert.Equal(t, string(models.RouteTaxi), fields["route"])
}

func TestDispatcher_DefaultWeatherChat(t *testing.T) {
	f := newFixture()

	reply, err := f.dispatcher(t).Handle(context.Background(), turn("is it cold out?"))
	require.NoError(t, err)

	assert.Equal(t, models.RouteWeather, reply.Route)
	assert.Equal(t, []string{"conv-1"}, f.weather.conversations)
	assert.True(t, f.weather.deadline, "turn context carries the turn timeout")
	assert.Equal(t, 1, f.journey.calls)
	assert.Equal(t, 1, f.coordinator.calls)
	assert.Equal(t, 1, f.classifier.calls)
}

func TestDispatcher_OptionalStages(t *testing.T) {
	f := newFixture()
	d := New(&Config{TurnTimeout: time.Second}, Components{
		Classifier: f.classifier,
		Weather:    f.weather,
	}, nil, logger.NewNoOpLogger())

	reply, err := d.Handle(context.Background(), turn("weather?"))
	require.NoError(t, err)
	assert.Equal(t, models.RouteWeather, reply.Route)
}

func TestDispatcher_EmptyMessage(t *testing.T) {
	_, err := newFixture().dispatcher(t).Handle(context.Background(), turn("  \n"))
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestDispatcher_Welcome(t *testing.T) {
	reply := newFixture().dispatcher(t).Welcome()
	assert.Equal(t, models.ContentText, reply.ContentType)
	assert.Equal(t, "Hello and Welcome! I can help you with weather forecasts, shopping recommendations, and taxi services!", reply.Text)
}
