// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter used for per-turn instruments.
// A zero value is safe to use and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	turnCounter   otelmetric.Int64Counter
	turnDuration  otelmetric.Float64Histogram
	stepDuration  otelmetric.Float64Histogram
}

// New registers a Prometheus exporter on the default registry.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	turnCounter, _ := meter.Int64Counter(
		"turns.handled",
		otelmetric.WithDescription("Number of user turns handled"),
	)

	turnDuration, _ := meter.Float64Histogram(
		"turns.duration",
		otelmetric.WithDescription("End-to-end turn duration"),
		otelmetric.WithUnit("ms"),
	)

	stepDuration, _ := meter.Float64Histogram(
		"pipeline.step.duration",
		otelmetric.WithDescription("Duration of one pipeline step (extract, weather, shopping, fares)"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		turnCounter:   turnCounter,
		turnDuration:  turnDuration,
		stepDuration:  stepDuration,
	}, nil
}

// RecordTurn counts a finished turn and its duration.
func (o *Observability) RecordTurn(ctx context.Context, route string, duration time.Duration, failed bool) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.Bool("failed", failed),
	)
	if o.turnCounter != nil {
		o.turnCounter.Add(ctx, 1, attrs)
	}
	if o.turnDuration != nil {
		o.turnDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// RecordStep records how long one named pipeline step took.
func (o *Observability) RecordStep(ctx context.Context, pipeline, step string, duration time.Duration) {
	if o == nil || o.stepDuration == nil {
		return
	}
	o.stepDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("step", step),
	))
}

// Shutdown flushes and stops the meter provider.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
