package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/engine"
)

const apiBase = "https://api.openai.com/v1"

// AssistantEngine drives the OpenAI Assistants API (v2). The assistant is
// pre-configured (model, tool declarations) and referenced by id.
type AssistantEngine struct {
	APIKey      string
	AssistantID string
	Client      *http.Client
	logger      logger.ILogger
}

var _ engine.Engine = &AssistantEngine{}

func NewAssistantEngine(apiKey, assistantID string, log logger.ILogger) *AssistantEngine {
	return &AssistantEngine{
		APIKey:      apiKey,
		AssistantID: assistantID,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: log,
	}
}

// --- Wire structs (internal to this package) ---

type threadResponse struct {
	ID string `json:"id"`
}

type messageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runRequest struct {
	AssistantID            string `json:"assistant_id"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

type runResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	RequiredAction *struct {
		SubmitToolOutputs struct {
			ToolCalls []struct {
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"submit_tool_outputs"`
	} `json:"required_action"`
}

type toolOutputsRequest struct {
	ToolOutputs []toolOutput `json:"tool_outputs"`
}

type toolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

type messagesListResponse struct {
	Data []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
}

// --- Interface implementation ---

func (e *AssistantEngine) ResolveThread(ctx context.Context, threadID string) (string, error) {
	if threadID != "" {
		var thread threadResponse
		err := e.request(ctx, http.MethodGet, "/threads/"+threadID, nil, &thread)
		if err == nil {
			return thread.ID, nil
		}
		e.logger.Info("AssistantEngine", "Thread not found, creating new one", map[string]interface{}{
			"thread_id": threadID,
		})
	}

	var thread threadResponse
	if err := e.request(ctx, http.MethodPost, "/threads", map[string]interface{}{}, &thread); err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (e *AssistantEngine) AddMessage(ctx context.Context, threadID string, msg engine.Message) error {
	payload := messageRequest{Role: msg.Role, Content: msg.Content}
	return e.request(ctx, http.MethodPost, "/threads/"+threadID+"/messages", payload, nil)
}

func (e *AssistantEngine) StartExchange(ctx context.Context, threadID string, opts engine.ExchangeOptions) (*engine.Exchange, error) {
	payload := runRequest{
		AssistantID:            e.AssistantID,
		AdditionalInstructions: opts.Instructions,
	}
	var run runResponse
	if err := e.request(ctx, http.MethodPost, "/threads/"+threadID+"/runs", payload, &run); err != nil {
		return nil, err
	}
	return toExchange(&run), nil
}

func (e *AssistantEngine) PollExchange(ctx context.Context, threadID, exchangeID string) (*engine.Exchange, error) {
	var run runResponse
	if err := e.request(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+exchangeID, nil, &run); err != nil {
		return nil, err
	}
	return toExchange(&run), nil
}

func (e *AssistantEngine) SubmitToolOutputs(ctx context.Context, threadID, exchangeID string, outputs []engine.ToolOutput) (*engine.Exchange, error) {
	payload := toolOutputsRequest{ToolOutputs: make([]toolOutput, len(outputs))}
	for i, out := range outputs {
		payload.ToolOutputs[i] = toolOutput{ToolCallID: out.CallID, Output: out.Output}
	}

	var run runResponse
	err := e.request(ctx, http.MethodPost, "/threads/"+threadID+"/runs/"+exchangeID+"/submit_tool_outputs", payload, &run)
	if err != nil {
		return nil, err
	}
	return toExchange(&run), nil
}

func (e *AssistantEngine) LatestAssistantMessage(ctx context.Context, threadID string) (*engine.Message, error) {
	var list messagesListResponse
	err := e.request(ctx, http.MethodGet, "/threads/"+threadID+"/messages?limit=1&order=desc", nil, &list)
	if err != nil {
		return nil, err
	}
	if len(list.Data) == 0 || len(list.Data[0].Content) == 0 {
		return nil, fmt.Errorf("thread %s has no messages", threadID)
	}

	first := list.Data[0]
	content := first.Content[0]
	return &engine.Message{
		Role:    first.Role,
		Content: content.Text.Value,
		Plain:   content.Type == "text",
	}, nil
}

// --- Transport ---

func (e *AssistantEngine) request(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiBase+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+e.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.Error("AssistantEngine", "Non-success response", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"body":     string(raw),
		})
		return fmt.Errorf("engine returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode engine response: %w", err)
		}
	}
	return nil
}

func toExchange(run *runResponse) *engine.Exchange {
	ex := &engine.Exchange{
		ID:     run.ID,
		Status: engine.Status(run.Status),
	}
	if run.RequiredAction != nil {
		for _, call := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
			ex.PendingCalls = append(ex.PendingCalls, engine.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: json.RawMessage(call.Function.Arguments),
			})
		}
	}
	return ex
}
