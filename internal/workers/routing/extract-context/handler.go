// internal/workers/routing/extract-context/handler.go
package extractcontext

import (
	"context"
	"errors"
	"fmt"

	apperrors "trip-concierge/internal/common/errors"
	"trip-concierge/internal/common/fallback"
	"trip-concierge/internal/common/llm"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/metrics"
	"trip-concierge/internal/common/validation"
	"trip-concierge/internal/models"
)

const (
	TaskType = "extract-context"
)

var (
	ErrExtractionFailed   = errors.New("EXTRACTION_FAILED")
	ErrMissingDestination = errors.New("MISSING_DESTINATION")
)

type Handler struct {
	config   *Config
	provider llm.Provider
	logger   logger.Logger
}

func NewHandler(config *Config, provider llm.Provider, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		provider: provider,
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// ExtractComplexQueryContext reads whether a message needs the weather, shopping
// and transport agents chained. Any failure yields the not-multi-agent default.
func (h *Handler) ExtractComplexQueryContext(ctx context.Context, message string) fallback.Result[models.QueryContext] {
	var rec queryRecord
	if err := h.extract(ctx, buildComplexQueryPrompt(message), queryContextSchema, &rec); err != nil {
		h.recordFallback(fallback.KindQueryContext, err)
		return fallback.QueryContext(apperrors.NewExtractionFailedError(string(fallback.KindQueryContext), err))
	}

	qc := rec.toContext()
	h.logger.Info("query context extracted", map[string]interface{}{
		"requiresMultiAgent": qc.RequiresMultiAgent,
		"location":           models.StringOr(qc.Location, ""),
		"date":               models.StringOr(qc.Date, ""),
		"needsTransport":     qc.NeedsTransport,
		"purpose":            string(qc.Purpose),
	})
	return fallback.Ok(qc)
}

// ExtractJourneyContext reads whether a message describes a multi-stop trip.
// Any failure yields the not-multi-stop default.
func (h *Handler) ExtractJourneyContext(ctx context.Context, message string) fallback.Result[models.JourneyContext] {
	var rec journeyRecord
	err := h.extract(ctx, buildJourneyPrompt(message, h.config.TriggerPurposes), journeyContextSchema, &rec)
	if err == nil && rec.RequiresMultiStop && clean(rec.MainDestination) == nil {
		err = ErrMissingDestination
	}
	if err != nil {
		h.recordFallback(fallback.KindJourney, err)
		return fallback.Journey(apperrors.NewExtractionFailedError(string(fallback.KindJourney), err))
	}

	jc := rec.toContext()
	h.logger.Info("journey context extracted", map[string]interface{}{
		"requiresMultiStop": jc.RequiresMultiStop,
		"mainDestination":   jc.MainDestination,
		"startLocation":     models.StringOr(jc.StartLocation, ""),
		"purpose":           string(jc.Purpose),
		"activities":        len(jc.Activities),
	})
	return fallback.Ok(jc)
}

func (h *Handler) extract(ctx context.Context, prompt string, schema *validation.Schema, out interface{}) error {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	answer, err := llm.Ask(ctx, h.provider, prompt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	h.logger.Debug("extraction answer", map[string]interface{}{
		"schema": schema.Name(),
		"answer": answer,
	})

	return validation.DecodeStrict(answer, schema, out, normalizePurpose)
}

func (h *Handler) recordFallback(kind fallback.Kind, err error) {
	metrics.FallbacksTotal.WithLabelValues(string(kind)).Inc()
	h.logger.Warn("extraction defaulted", map[string]interface{}{
		"kind":  string(kind),
		"error": err.Error(),
	})
}
