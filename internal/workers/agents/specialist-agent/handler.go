// internal/workers/agents/specialist-agent/handler.go
package specialistagent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "trip-concierge/internal/common/errors"
	apphttp "trip-concierge/internal/common/http"
	"trip-concierge/internal/common/logger"
	"trip-concierge/internal/common/metrics"
)

const (
	TaskType = "specialist-agent"
)

var (
	ErrMissingQuery = errors.New("MISSING_QUERY")
	ErrEmptyRunID   = errors.New("EMPTY_RUN_ID")
)

// Agent is an opaque specialist: text in, text out.
type Agent interface {
	Name() string
	Query(ctx context.Context, text string) (string, error)
}

type Handler struct {
	config *Config
	client *apphttp.Client
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	headers := map[string]string{}
	if config.APIKey != "" {
		headers["api-key"] = config.APIKey
	}

	return &Handler{
		config: config,
		client: apphttp.NewClient(config.Timeout, config.MaxRetries, headers),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
			"agent":    config.Name,
		}),
	}
}

func (h *Handler) Name() string {
	return h.config.Name
}

// Query runs one question on a fresh thread and returns the assistant's answer.
// A run that ends in the failed state yields the configured apology, not an error.
func (h *Handler) Query(ctx context.Context, text string) (string, error) {
	out, err := h.Execute(ctx, &Input{Query: text})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, ErrMissingQuery
	}

	start := time.Now()
	defer func() {
		metrics.AgentCallDuration.WithLabelValues(h.config.Name).Observe(time.Since(start).Seconds())
	}()

	out, err := h.execute(ctx, input)
	switch {
	case apperrors.HasCode(err, apperrors.ErrCodeAgentPollTimeout):
		metrics.AgentCalls.WithLabelValues(h.config.Name, "timeout").Inc()
	case err != nil:
		metrics.AgentCalls.WithLabelValues(h.config.Name, "transport_error").Inc()
	case out.Status == RunFailed:
		metrics.AgentCalls.WithLabelValues(h.config.Name, "run_failed").Inc()
	default:
		metrics.AgentCalls.WithLabelValues(h.config.Name, "ok").Inc()
	}
	if err != nil {
		fields := apperrors.LogFields(err)
		fields["duration"] = time.Since(start).String()
		h.logger.Error("agent query failed", fields)
		return nil, err
	}

	h.logger.Info("agent query finished", map[string]interface{}{
		"threadId": out.ThreadID,
		"runId":    out.RunID,
		"status":   string(out.Status),
		"answered": out.Answered,
		"duration": time.Since(start).String(),
	})
	return out, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	var th thread
	if err := h.call(ctx, http.MethodPost, "/threads", struct{}{}, &th); err != nil {
		return nil, h.transportError("create thread", err)
	}

	msg := messageRequest{Role: "user", Content: input.Query}
	if err := h.call(ctx, http.MethodPost, "/threads/"+th.ID+"/messages", msg, nil); err != nil {
		return nil, h.transportError("add message", err)
	}

	var r run
	if err := h.call(ctx, http.MethodPost, "/threads/"+th.ID+"/runs", runRequest{AssistantID: h.config.AssistantID}, &r); err != nil {
		return nil, h.transportError("create run", err)
	}
	if r.ID == "" {
		return nil, h.transportError("create run", ErrEmptyRunID)
	}

	if err := h.poll(ctx, th.ID, &r); err != nil {
		return nil, err
	}

	out := &Output{ThreadID: th.ID, RunID: r.ID, Status: r.Status}

	if r.Status == RunFailed {
		fields := map[string]interface{}{"runId": r.ID}
		if r.LastError != nil {
			fields["code"] = r.LastError.Code
			fields["reason"] = r.LastError.Message
		}
		h.logger.Warn("agent run failed", fields)
		out.Reply = h.config.FailureMessage
		return out, nil
	}

	var list messageList
	if err := h.call(ctx, http.MethodGet, "/threads/"+th.ID+"/messages", nil, &list, "order", "asc"); err != nil {
		return nil, h.transportError("list messages", err)
	}

	for _, m := range list.Data {
		if m.Role != "assistant" {
			continue
		}
		if text, ok := m.text(); ok {
			out.Reply = text
		}
	}

	if out.Reply == "" {
		out.Reply = fmt.Sprintf("No response from %s agent.", h.config.Name)
		return out, nil
	}
	out.Answered = true
	return out, nil
}

// poll refreshes r until it leaves the active states. Requests are paced by a
// limiter at PollInterval; the whole loop is bounded by MaxWait.
func (h *Handler) poll(ctx context.Context, threadID string, r *run) error {
	if !r.Status.Active() {
		return nil
	}

	pollCtx, cancel := context.WithTimeout(ctx, h.config.MaxWait)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(h.config.PollInterval), 1)
	// spend the initial burst so the first check waits a full interval
	limiter.Allow()

	polls := 0
	for r.Status.Active() {
		if err := limiter.Wait(pollCtx); err != nil {
			// Wait fails early when the next slot lies past the MaxWait deadline
			return h.pollError(ctx, pollCtx, err, true)
		}

		polls++
		if err := h.call(pollCtx, http.MethodGet, "/threads/"+threadID+"/runs/"+r.ID, nil, r); err != nil {
			return h.pollError(ctx, pollCtx, err, false)
		}

		h.logger.Debug("run status", map[string]interface{}{
			"runId":  r.ID,
			"status": string(r.Status),
			"polls":  polls,
		})
	}
	return nil
}

// pollError tells the caller's own cancellation apart from the MaxWait budget running out.
func (h *Handler) pollError(parent, pollCtx context.Context, err error, limited bool) error {
	if parent.Err() != nil {
		return h.transportError("poll run", parent.Err())
	}
	if limited || pollCtx.Err() != nil {
		return apperrors.NewAgentPollTimeoutError(h.config.Name, h.config.MaxWait)
	}
	return h.transportError("poll run", err)
}

func (h *Handler) call(ctx context.Context, method, path string, body, out interface{}, query ...string) error {
	return h.client.DoJSON(ctx, method, h.endpoint(path, query...), body, out)
}

func (h *Handler) endpoint(path string, query ...string) string {
	q := url.Values{}
	if h.config.APIVersion != "" {
		q.Set("api-version", h.config.APIVersion)
	}
	for i := 0; i+1 < len(query); i += 2 {
		q.Set(query[i], query[i+1])
	}

	u := strings.TrimRight(h.config.BaseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (h *Handler) transportError(step string, err error) error {
	return apperrors.NewAgentTransportFailedError(h.config.Name, fmt.Errorf("%s: %w", step, err))
}
