package events

import "time"

// Event codes published on the usage bus.
const (
	TypeChatCompleted      = "CHAT_COMPLETED"
	TypeRetrievalPerformed = "RETRIEVAL_PERFORMED"
	TypeSessionReset       = "SESSION_RESET"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by the publisher side.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChatCompleted records one finished chat turn.
func NewChatCompleted(threadID string, domainQuery bool, durationMs int64) BaseEvent {
	return BaseEvent{
		Type: TypeChatCompleted,
		Data: map[string]interface{}{
			"thread_id":    threadID,
			"domain_query": domainQuery,
			"duration_ms":  durationMs,
		},
		OccurredAt: time.Now(),
	}
}

// NewRetrievalPerformed records a grounding retrieval and its result sizes.
func NewRetrievalPerformed(query string, fileHits, docHits int) BaseEvent {
	return BaseEvent{
		Type: TypeRetrievalPerformed,
		Data: map[string]interface{}{
			"query":     query,
			"file_hits": fileHits,
			"doc_hits":  docHits,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionReset records a user-initiated session reset.
func NewSessionReset(sessionID string) BaseEvent {
	return BaseEvent{
		Type: TypeSessionReset,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}
