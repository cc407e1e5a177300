// internal/workers/agents/specialist-agent/models.go
package specialistagent

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Reply    string    `json:"reply"`
	ThreadID string    `json:"threadId"`
	RunID    string    `json:"runId"`
	Status   RunStatus `json:"status"`
	// Answered is false when Reply is the failure apology or the no-response text.
	Answered bool `json:"answered"`
}

// RunStatus is the lifecycle state of a run on the agent service.
type RunStatus string

const (
	RunQueued         RunStatus = "queued"
	RunInProgress     RunStatus = "in_progress"
	RunCancelling     RunStatus = "cancelling"
	RunCompleted      RunStatus = "completed"
	RunFailed         RunStatus = "failed"
	RunCancelled      RunStatus = "cancelled"
	RunExpired        RunStatus = "expired"
	RunRequiresAction RunStatus = "requires_action"
)

// Active reports whether the run may still change state.
func (s RunStatus) Active() bool {
	return s == RunQueued || s == RunInProgress || s == RunCancelling
}

// Wire types for the agent service.

type thread struct {
	ID string `json:"id"`
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runRequest struct {
	AssistantID string `json:"assistant_id"`
}

type run struct {
	ID        string    `json:"id"`
	Status    RunStatus `json:"status"`
	LastError *runError `json:"last_error,omitempty"`
}

type runError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageList struct {
	Data []threadMessage `json:"data"`
}

type threadMessage struct {
	ID      string        `json:"id"`
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string       `json:"type"`
	Text *textContent `json:"text,omitempty"`
}

type textContent struct {
	Value string `json:"value"`
}

// text returns the first text part of a message.
func (m threadMessage) text() (string, bool) {
	for _, c := range m.Content {
		if c.Type == "text" && c.Text != nil {
			return c.Text.Value, true
		}
	}
	return "", false
}
