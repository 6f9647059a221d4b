package history

import (
	"context"
	"time"
)

// Message is a single conversation turn kept in the session history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	// MaxMessages bounds the stored history to 5 exchanges; oldest entries
	// are dropped first.
	MaxMessages = 10

	// SessionTTL is refreshed on every write. Sessions with no writes for
	// this long expire and read back empty.
	SessionTTL = time.Hour
)

// record is the stored session value. The thread id is a handle owned by
// the generative engine; the session only references it.
type record struct {
	ThreadID string    `json:"thread_id,omitempty"`
	Messages []Message `json:"messages"`
}

// Store is the per-session bounded, time-expiring message log.
//
// Concurrent requests for the same session id are not serialized; two
// simultaneous writers interleave as last-write-wins.
type Store interface {
	// Get returns the stored history, empty after TTL expiry or reset.
	Get(ctx context.Context, sessionID string) ([]Message, error)

	// Append pushes the user then assistant message, trims to MaxMessages
	// from the front, and refreshes the TTL.
	Append(ctx context.Context, sessionID string, userMsg, assistantMsg Message) error

	// Reset deletes the stored session entirely.
	Reset(ctx context.Context, sessionID string) error

	// BindThread records the engine thread handle for the session.
	BindThread(ctx context.Context, sessionID, threadID string) error

	// ThreadID returns the bound engine thread handle, "" if none.
	ThreadID(ctx context.Context, sessionID string) (string, error)
}

func appendTrimmed(messages []Message, userMsg, assistantMsg Message) []Message {
	messages = append(messages, userMsg, assistantMsg)
	if len(messages) > MaxMessages {
		messages = messages[len(messages)-MaxMessages:]
	}
	return messages
}
