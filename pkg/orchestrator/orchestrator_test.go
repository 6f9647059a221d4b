package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-chatbot-be/internal/constant"
	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/engine"
	"course-chatbot-be/pkg/stream"
	"course-chatbot-be/pkg/tools"
)

// scriptedEngine walks a fixed sequence of exchange states and records the
// calls made against it.
type scriptedEngine struct {
	threadID string
	states   []engine.Exchange
	cursor   int

	addedMessages    []engine.Message
	instructions     string
	submittedOutputs []engine.ToolOutput
	finalMessage     *engine.Message
}

func (s *scriptedEngine) ResolveThread(ctx context.Context, threadID string) (string, error) {
	return s.threadID, nil
}

func (s *scriptedEngine) AddMessage(ctx context.Context, threadID string, msg engine.Message) error {
	s.addedMessages = append(s.addedMessages, msg)
	return nil
}

func (s *scriptedEngine) StartExchange(ctx context.Context, threadID string, opts engine.ExchangeOptions) (*engine.Exchange, error) {
	s.instructions = opts.Instructions
	return s.next(), nil
}

func (s *scriptedEngine) PollExchange(ctx context.Context, threadID, exchangeID string) (*engine.Exchange, error) {
	return s.next(), nil
}

func (s *scriptedEngine) SubmitToolOutputs(ctx context.Context, threadID, exchangeID string, outputs []engine.ToolOutput) (*engine.Exchange, error) {
	s.submittedOutputs = append(s.submittedOutputs, outputs...)
	return s.next(), nil
}

func (s *scriptedEngine) LatestAssistantMessage(ctx context.Context, threadID string) (*engine.Message, error) {
	return s.finalMessage, nil
}

func (s *scriptedEngine) next() *engine.Exchange {
	st := s.states[s.cursor]
	if s.cursor < len(s.states)-1 {
		s.cursor++
	}
	return &st
}

type stubTool struct {
	name   string
	result interface{}
	err    error
}

func (t *stubTool) Definition() tools.Definition {
	return tools.Definition{Name: t.name}
}

func (t *stubTool) Call(ctx context.Context, args json.RawMessage) (interface{}, error) {
	return t.result, t.err
}

func newTestOrchestrator(eng engine.Engine, registry *tools.Registry) *Orchestrator {
	return NewWithPollInterval(eng, registry, logger.NewNopLogger(), time.Millisecond)
}

func TestRunHappyPath(t *testing.T) {
	eng := &scriptedEngine{
		threadID: "thread_abc",
		states: []engine.Exchange{
			{ID: "run_1", Status: engine.StatusQueued},
			{ID: "run_1", Status: engine.StatusInProgress},
			{ID: "run_1", Status: engine.StatusCompleted},
		},
		finalMessage: &engine.Message{Role: "assistant", Content: "Here you go.", Plain: true},
	}

	orc := newTestOrchestrator(eng, tools.NewRegistry())
	var collector stream.Collector

	result, err := orc.Run(context.Background(), "", "hello", "ground me", &collector)
	require.NoError(t, err)

	assert.Equal(t, "thread_abc", result.ThreadID)
	assert.Equal(t, "thread_abc", collector.ThreadID)
	assert.Equal(t, "Here you go.", result.Message)
	assert.Equal(t, "ground me", eng.instructions)
	require.Len(t, eng.addedMessages, 1)
	assert.Equal(t, constant.ChatMessageRoleUser, eng.addedMessages[0].Role)
	assert.Equal(t, "hello", eng.addedMessages[0].Content)
}

func TestRunResolvesToolBatch(t *testing.T) {
	calls := []engine.ToolCall{
		{ID: "call_1", Name: "good_tool", Arguments: json.RawMessage(`{}`)},
		{ID: "call_2", Name: "bad_tool", Arguments: json.RawMessage(`{}`)},
	}
	eng := &scriptedEngine{
		threadID: "thread_abc",
		states: []engine.Exchange{
			{ID: "run_1", Status: engine.StatusQueued},
			{ID: "run_1", Status: engine.StatusRequiresAction, PendingCalls: calls},
			{ID: "run_1", Status: engine.StatusCompleted},
		},
		finalMessage: &engine.Message{Role: "assistant", Content: "done", Plain: true},
	}

	registry := tools.NewRegistry(
		&stubTool{name: "good_tool", result: map[string]string{"ok": "yes"}},
		&stubTool{name: "bad_tool", err: errors.New("backend unavailable")},
	)
	orc := newTestOrchestrator(eng, registry)
	var collector stream.Collector

	result, err := orc.Run(context.Background(), "thread_abc", "find courses", "", &collector)
	require.NoError(t, err)
	assert.Equal(t, "done", result.Message)

	require.Len(t, eng.submittedOutputs, 2)
	byCall := map[string]string{}
	for _, out := range eng.submittedOutputs {
		byCall[out.CallID] = out.Output
	}
	assert.JSONEq(t, `{"ok":"yes"}`, byCall["call_1"])
	assert.JSONEq(t, `{"error":"backend unavailable"}`, byCall["call_2"])
}

func TestRunUnknownToolStillCompletes(t *testing.T) {
	eng := &scriptedEngine{
		threadID: "thread_abc",
		states: []engine.Exchange{
			{ID: "run_1", Status: engine.StatusRequiresAction, PendingCalls: []engine.ToolCall{
				{ID: "call_1", Name: "no_such_tool", Arguments: json.RawMessage(`{}`)},
			}},
			{ID: "run_1", Status: engine.StatusCompleted},
		},
		finalMessage: &engine.Message{Content: "answer", Plain: true},
	}

	orc := newTestOrchestrator(eng, tools.NewRegistry())
	var collector stream.Collector

	_, err := orc.Run(context.Background(), "thread_abc", "hi", "", &collector)
	require.NoError(t, err)

	require.Len(t, eng.submittedOutputs, 1)
	assert.JSONEq(t, `{"error":"tool not found"}`, eng.submittedOutputs[0].Output)
}

func TestRunFailedExchange(t *testing.T) {
	eng := &scriptedEngine{
		threadID: "thread_abc",
		states: []engine.Exchange{
			{ID: "run_1", Status: engine.StatusQueued},
			{ID: "run_1", Status: engine.StatusFailed},
		},
	}

	orc := newTestOrchestrator(eng, tools.NewRegistry())
	var collector stream.Collector

	_, err := orc.Run(context.Background(), "thread_abc", "hi", "", &collector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
	// thread id is still announced before the failure
	assert.Equal(t, "thread_abc", collector.ThreadID)
}

func TestRunNonTextResponse(t *testing.T) {
	eng := &scriptedEngine{
		threadID: "thread_abc",
		states: []engine.Exchange{
			{ID: "run_1", Status: engine.StatusCompleted},
		},
		finalMessage: &engine.Message{Content: "", Plain: false},
	}

	orc := newTestOrchestrator(eng, tools.NewRegistry())
	var collector stream.Collector

	result, err := orc.Run(context.Background(), "thread_abc", "hi", "", &collector)
	require.NoError(t, err)
	assert.Equal(t, constant.NonTextResponseNotice, result.Message)
}

func TestRunCancelledDuringPoll(t *testing.T) {
	eng := &scriptedEngine{
		threadID: "thread_abc",
		states: []engine.Exchange{
			{ID: "run_1", Status: engine.StatusInProgress},
			{ID: "run_1", Status: engine.StatusInProgress},
		},
	}

	orc := newTestOrchestrator(eng, tools.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var collector stream.Collector
	_, err := orc.Run(ctx, "thread_abc", "hi", "", &collector)
	assert.ErrorIs(t, err, context.Canceled)
}
