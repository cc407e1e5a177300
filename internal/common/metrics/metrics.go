// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_turns_total",
			Help: "Total number of user turns by the route that answered them",
		},
		[]string{"route"},
	)

	TurnsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "concierge_turns_active",
			Help: "Number of turns currently being handled",
		},
	)

	AgentCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_agent_calls_total",
			Help: "Specialist agent queries by outcome (ok, run_failed, transport_error, timeout, cache_hit)",
		},
		[]string{"agent", "outcome"},
	)

	AgentCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concierge_agent_call_duration_seconds",
			Help:    "Duration of specialist agent queries in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 45, 90},
		},
		[]string{"agent"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_fallbacks_total",
			Help: "Number of times a model-backed decision fell back to its default",
		},
		[]string{"kind"},
	)
)
