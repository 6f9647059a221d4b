package dto

import "time"

type SendChatRequest struct {
	Message  string `json:"message" validate:"required"`
	ThreadId string `json:"threadId,omitempty"`
}

type SendChatResponse struct {
	Message  string `json:"message"`
	ThreadId string `json:"threadId"`
}

type WidgetChatRequest struct {
	Message string `json:"message" validate:"required"`
	Nonce   string `json:"nonce" validate:"required"`
}

// WidgetChatResponse wraps the widget reply in the envelope the embedded
// page script expects.
type WidgetChatResponse struct {
	Message    string `json:"message"`
	HasResults bool   `json:"has_results"`
}

type WidgetBootstrapResponse struct {
	Nonce     string `json:"nonce"`
	SessionId string `json:"session_id"`
}

type WidgetResetRequest struct {
	Nonce string `json:"nonce" validate:"required"`
}

// PublishUsageEventMessage travels the in-process bus between the chat
// service and the usage consumer.
type PublishUsageEventMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}
