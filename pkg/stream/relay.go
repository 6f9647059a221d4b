package stream

import (
	"context"
	"strings"
	"time"
)

// DefaultWordDelay paces word emission so the client renders a steady
// typing effect.
const DefaultWordDelay = 20 * time.Millisecond

// Relay chunks a completed message into word-sized content frames.
type Relay struct {
	delay time.Duration
}

func NewRelay() *Relay {
	return &Relay{delay: DefaultWordDelay}
}

// NewRelayWithDelay is a test hook for deterministic pacing.
func NewRelayWithDelay(delay time.Duration) *Relay {
	return &Relay{delay: delay}
}

// Send emits message word by word, preserving a trailing space on every
// word but the last so the client can concatenate frames verbatim. It
// stops early when ctx is cancelled or the emitter fails.
func (r *Relay) Send(ctx context.Context, emitter Emitter, message string) error {
	words := strings.Fields(message)
	for i, word := range words {
		if i < len(words)-1 {
			word += " "
		}
		if err := emitter.Emit(ContentFrame(word)); err != nil {
			return err
		}
		if i == len(words)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.delay):
		}
	}
	return nil
}
