package service

import (
	"context"
	"encoding/json"

	"course-chatbot-be/internal/dto"
	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/events"
	pktNats "course-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IUsageConsumerService interface {
	Consume(ctx context.Context) error
}

// usageConsumerService drains usage events off the in-process bus and
// forwards them to NATS. Keeping the forward off the request path means a
// slow or absent NATS never delays a chat response.
type usageConsumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewUsageConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUsageConsumerService {
	return &usageConsumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *usageConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *usageConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishUsageEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("UsageConsumer", "failed to unmarshal usage event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("UsageConsumer", "usage event received", map[string]interface{}{
		"type": payload.Type,
	})

	if cs.eventPublisher == nil {
		// NATS was unreachable at startup; events are best-effort
		msg.Ack()
		return
	}

	evt := events.BaseEvent{
		Type:       payload.Type,
		Data:       payload.Data,
		OccurredAt: payload.OccurredAt,
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.logger.Error("UsageConsumer", "failed to forward usage event", map[string]interface{}{
			"type":  payload.Type,
			"error": err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
