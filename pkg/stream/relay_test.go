package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayReassemblesVerbatim(t *testing.T) {
	relay := NewRelayWithDelay(0)
	var collector Collector

	err := relay.Send(context.Background(), &collector, "Hello there, how are you?")
	require.NoError(t, err)
	assert.Equal(t, "Hello there, how are you?", collector.Message())
}

func TestRelayEmitsWordFrames(t *testing.T) {
	relay := NewRelayWithDelay(0)
	var frames []Frame
	emitter := EmitterFunc(func(f Frame) error {
		frames = append(frames, f)
		return nil
	})

	err := relay.Send(context.Background(), emitter, "one two three")
	require.NoError(t, err)
	require.Len(t, frames, 3)
	assert.Equal(t, "one ", frames[0].Content)
	assert.Equal(t, "two ", frames[1].Content)
	assert.Equal(t, "three", frames[2].Content)
}

func TestRelayEmptyMessage(t *testing.T) {
	relay := NewRelayWithDelay(0)
	var collector Collector

	err := relay.Send(context.Background(), &collector, "")
	require.NoError(t, err)
	assert.Empty(t, collector.Message())
}

func TestRelayStopsOnCancel(t *testing.T) {
	relay := NewRelayWithDelay(DefaultWordDelay)
	ctx, cancel := context.WithCancel(context.Background())

	count := 0
	emitter := EmitterFunc(func(f Frame) error {
		count++
		if count == 2 {
			cancel()
		}
		return nil
	})

	err := relay.Send(ctx, emitter, "a b c d e f g h")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, count, 8)
}

func TestRelayStopsOnEmitterError(t *testing.T) {
	relay := NewRelayWithDelay(0)
	boom := errors.New("client gone")
	emitter := EmitterFunc(func(f Frame) error {
		return boom
	})

	err := relay.Send(context.Background(), emitter, "a b")
	assert.ErrorIs(t, err, boom)
}

func TestCollectorTracksThreadID(t *testing.T) {
	var collector Collector
	require.NoError(t, collector.Emit(ThreadIDFrame("thread_123")))
	require.NoError(t, collector.Emit(ContentFrame("hi")))
	require.NoError(t, collector.Emit(DoneFrame()))

	assert.Equal(t, "thread_123", collector.ThreadID)
	assert.Equal(t, "hi", collector.Message())
}
