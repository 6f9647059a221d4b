package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"

	"course-chatbot-be/internal/dto"
	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/events"
)

func requireAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Fatal("message was not acked")
	}
}

func TestUsageConsumerAcksInvalidPayload(t *testing.T) {
	cs := &usageConsumerService{logger: logger.NewNopLogger()}

	msg := message.NewMessage("1", []byte("not json"))
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
}

func TestUsageConsumerAcksWhenPublisherAbsent(t *testing.T) {
	cs := &usageConsumerService{logger: logger.NewNopLogger()}

	payload, err := json.Marshal(dto.PublishUsageEventMessage{
		Type:       events.TypeChatCompleted,
		Data:       map[string]interface{}{"thread_id": "t1"},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	msg := message.NewMessage("2", payload)
	cs.processMessage(context.Background(), msg)

	requireAcked(t, msg)
}
