package engine

import (
	"context"
	"encoding/json"
)

// Status is the lifecycle state of an exchange as reported by the engine.
type Status string

const (
	StatusCreated        Status = "created"
	StatusQueued         Status = "queued"
	StatusInProgress     Status = "in_progress"
	StatusRequiresAction Status = "requires_action"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
)

// Pending reports whether the exchange is still being worked on.
func (s Status) Pending() bool {
	return s == StatusCreated || s == StatusQueued || s == StatusInProgress || s == StatusRequiresAction
}

// Message is a chat message in a provider-agnostic format.
type Message struct {
	Role    string
	Content string
	// Plain is false when the engine returned something other than text
	// (an image, a file reference).
	Plain bool
}

// ToolCall is a request from the engine to invoke a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolOutput is the resolved result for one tool call, matched by id.
type ToolOutput struct {
	CallID string
	Output string
}

// Exchange is one orchestrator run against the engine.
type Exchange struct {
	ID           string
	Status       Status
	PendingCalls []ToolCall
}

// ExchangeOptions carry per-run configuration.
type ExchangeOptions struct {
	// Instructions is the grounding system text for this turn. It rides
	// the exchange rather than the thread so it is never part of the
	// durable conversation.
	Instructions string
}

// Engine is the contract with the generative backend. Thread handles are
// owned by the engine; callers only reference them.
type Engine interface {
	// ResolveThread returns threadID if the engine can still resolve it,
	// otherwise (or when threadID is empty) it mints a new thread.
	ResolveThread(ctx context.Context, threadID string) (string, error)

	// AddMessage appends a message to the thread.
	AddMessage(ctx context.Context, threadID string, msg Message) error

	// StartExchange begins a run on the thread.
	StartExchange(ctx context.Context, threadID string, opts ExchangeOptions) (*Exchange, error)

	// PollExchange re-fetches the exchange status.
	PollExchange(ctx context.Context, threadID, exchangeID string) (*Exchange, error)

	// SubmitToolOutputs sends all resolved outputs for a requires_action
	// batch in one call.
	SubmitToolOutputs(ctx context.Context, threadID, exchangeID string, outputs []ToolOutput) (*Exchange, error)

	// LatestAssistantMessage returns the most recent assistant message on
	// the thread.
	LatestAssistantMessage(ctx context.Context, threadID string) (*Message, error)
}
