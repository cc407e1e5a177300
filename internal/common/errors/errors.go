// Package errors provides standardized error codes for the concierge pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Model-backed routing and extraction
	ErrCodeExtractionFailed     ErrorCode = "EXTRACTION_FAILED"
	ErrCodeClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeReplyDecodeFailed    ErrorCode = "REPLY_DECODE_FAILED"
	ErrCodeLLMTimeout           ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed     ErrorCode = "LLM_REQUEST_FAILED"

	// Specialist agent gateway
	ErrCodeAgentRunFailed       ErrorCode = "AGENT_RUN_FAILED"
	ErrCodeAgentTransportFailed ErrorCode = "AGENT_TRANSPORT_FAILED"
	ErrCodeAgentPollTimeout     ErrorCode = "AGENT_POLL_TIMEOUT"

	// Supporting stores
	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeMemoryStoreFailed ErrorCode = "MEMORY_STORE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error) *StandardError {
	se := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		se.Details = cause.Error()
	}
	return se
}

// ==========================
// 2. Error Constructors
// ==========================

// NewExtractionFailedError reports a model reply that could not become a context record.
func NewExtractionFailedError(kind string, err error) *StandardError {
	return newError(ErrCodeExtractionFailed, fmt.Sprintf("Failed to extract %s context", kind), err)
}

// NewClassificationFailedError reports an intent classification that fell back to the default.
func NewClassificationFailedError(err error) *StandardError {
	return newError(ErrCodeClassificationFailed, "Intent classification failed", err)
}

// NewReplyDecodeFailedError reports a chat reply that did not match the response envelope.
func NewReplyDecodeFailedError(err error) *StandardError {
	return newError(ErrCodeReplyDecodeFailed, "Model reply is not a valid envelope", err)
}

// NewLLMTimeoutError creates a retryable timeout error.
func NewLLMTimeoutError(err error) *StandardError {
	return newError(ErrCodeLLMTimeout, "Language model request timed out", err)
}

// NewLLMRequestFailedError wraps a provider failure.
func NewLLMRequestFailedError(err error) *StandardError {
	return newError(ErrCodeLLMRequestFailed, "Language model request failed", err)
}

// NewAgentRunFailedError reports a run that reached the failed terminal state.
func NewAgentRunFailedError(agent, runID string) *StandardError {
	return newError(ErrCodeAgentRunFailed, fmt.Sprintf("Agent %s run failed", agent), nil).
		WithMetadata("agent", agent).
		WithMetadata("runId", runID)
}

// NewAgentTransportFailedError wraps a network, auth or protocol failure talking to an agent.
func NewAgentTransportFailedError(agent string, err error) *StandardError {
	return newError(ErrCodeAgentTransportFailed, fmt.Sprintf("Agent %s is unreachable", agent), err).
		WithMetadata("agent", agent)
}

// NewAgentPollTimeoutError reports a run that did not finish within the maximum wait.
func NewAgentPollTimeoutError(agent string, waited time.Duration) *StandardError {
	return newError(ErrCodeAgentPollTimeout, fmt.Sprintf("Agent %s did not finish within %s", agent, waited), nil).
		WithMetadata("agent", agent)
}

// NewCatalogLoadFailedError wraps a failure reading stores or zones.
func NewCatalogLoadFailedError(err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Failed to load catalog", err)
}

// NewMemoryStoreFailedError wraps a conversation memory backend failure.
func NewMemoryStoreFailedError(err error) *StandardError {
	return newError(ErrCodeMemoryStoreFailed, "Conversation memory unavailable", err)
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeAgentTransportFailed,
		ErrCodeLLMRequestFailed,
		ErrCodeMemoryStoreFailed,
		ErrCodeCatalogLoadFailed:
		return 3

	case ErrCodeLLMTimeout:
		return 1

	default:
		// Poll timeouts already consumed the whole wait budget.
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "AGENT"):
		return "AGENT"
	case strings.HasPrefix(codeStr, "LLM"):
		return "LLM"
	case strings.Contains(codeStr, "EXTRACTION") || strings.Contains(codeStr, "CLASSIFICATION") || strings.Contains(codeStr, "DECODE"):
		return "PARSING"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "MEMORY"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}

// LogFields returns error, code and category fields for a log entry. Errors
// without a StandardError in the chain get category OTHER and no code.
func LogFields(err error) map[string]interface{} {
	code := CodeOf(err)
	fields := map[string]interface{}{
		"error":    err.Error(),
		"category": GetErrorCategory(code),
	}
	if code != "" {
		fields["code"] = string(code)
	}
	return fields
}

// CodeOf returns the code of the first StandardError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}

// HasCode reports whether err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
