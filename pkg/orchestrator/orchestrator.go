package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"course-chatbot-be/internal/constant"
	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/engine"
	"course-chatbot-be/pkg/stream"
	"course-chatbot-be/pkg/tools"
)

const defaultPollInterval = time.Second

// Result is the finished turn: the resolved thread and the assistant's
// final message text.
type Result struct {
	ThreadID string
	Message  string
}

// Orchestrator drives a single chat turn through the engine: thread
// resolution, message append, exchange start, tool resolution, completion.
type Orchestrator struct {
	engine       engine.Engine
	registry     *tools.Registry
	log          logger.ILogger
	pollInterval time.Duration
}

func New(eng engine.Engine, registry *tools.Registry, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		engine:       eng,
		registry:     registry,
		log:          log,
		pollInterval: defaultPollInterval,
	}
}

// NewWithPollInterval is a test hook for fast polling.
func NewWithPollInterval(eng engine.Engine, registry *tools.Registry, log logger.ILogger, interval time.Duration) *Orchestrator {
	o := New(eng, registry, log)
	o.pollInterval = interval
	return o
}

// Run executes one turn. The threadId frame is emitted as soon as the
// thread is resolved so clients can persist it before content arrives;
// content delivery is left to the caller, which receives the final text in
// the Result.
func (o *Orchestrator) Run(ctx context.Context, threadID, userMessage, instructions string, emitter stream.Emitter) (*Result, error) {
	resolvedID, err := o.engine.ResolveThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("resolve thread: %w", err)
	}
	if err := emitter.Emit(stream.ThreadIDFrame(resolvedID)); err != nil {
		return nil, err
	}

	if err := o.engine.AddMessage(ctx, resolvedID, engine.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: userMessage,
		Plain:   true,
	}); err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	exchange, err := o.engine.StartExchange(ctx, resolvedID, engine.ExchangeOptions{
		Instructions: instructions,
	})
	if err != nil {
		return nil, fmt.Errorf("start exchange: %w", err)
	}

	exchange, err = o.await(ctx, resolvedID, exchange)
	if err != nil {
		return nil, err
	}

	if exchange.Status != engine.StatusCompleted {
		return nil, fmt.Errorf("exchange ended with status %s", exchange.Status)
	}

	msg, err := o.engine.LatestAssistantMessage(ctx, resolvedID)
	if err != nil {
		return nil, fmt.Errorf("fetch assistant message: %w", err)
	}

	text := constant.NonTextResponseNotice
	if msg != nil && msg.Plain {
		text = msg.Content
	}
	return &Result{ThreadID: resolvedID, Message: text}, nil
}

// await polls the exchange until it leaves the pending states, resolving
// tool batches along the way.
func (o *Orchestrator) await(ctx context.Context, threadID string, exchange *engine.Exchange) (*engine.Exchange, error) {
	for exchange.Status.Pending() {
		if exchange.Status == engine.StatusRequiresAction {
			outputs := o.resolveCalls(ctx, exchange.PendingCalls)
			next, err := o.engine.SubmitToolOutputs(ctx, threadID, exchange.ID, outputs)
			if err != nil {
				return nil, fmt.Errorf("submit tool outputs: %w", err)
			}
			exchange = next
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(o.pollInterval):
		}

		next, err := o.engine.PollExchange(ctx, threadID, exchange.ID)
		if err != nil {
			return nil, fmt.Errorf("poll exchange: %w", err)
		}
		exchange = next
	}
	return exchange, nil
}

// resolveCalls dispatches every pending call concurrently and returns an
// output for each. Failures become {error} outputs so one bad tool never
// starves the batch.
func (o *Orchestrator) resolveCalls(ctx context.Context, calls []engine.ToolCall) []engine.ToolOutput {
	outputs := make([]engine.ToolOutput, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call engine.ToolCall) {
			defer wg.Done()
			outputs[i] = engine.ToolOutput{
				CallID: call.ID,
				Output: o.resolveCall(ctx, call),
			}
		}(i, call)
	}
	wg.Wait()
	return outputs
}

func (o *Orchestrator) resolveCall(ctx context.Context, call engine.ToolCall) string {
	handler, ok := o.registry.Lookup(call.Name)
	if !ok {
		o.log.Warn("Orchestrator", "unknown tool requested", map[string]interface{}{
			"tool": call.Name,
		})
		return errorOutput("tool not found")
	}

	result, err := handler.Call(ctx, call.Arguments)
	if err != nil {
		o.log.Error("Orchestrator", "tool call failed", map[string]interface{}{
			"tool":  call.Name,
			"error": err.Error(),
		})
		return errorOutput(err.Error())
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return errorOutput(err.Error())
	}
	return string(encoded)
}

func errorOutput(msg string) string {
	encoded, _ := json.Marshal(map[string]string{"error": msg})
	return string(encoded)
}
