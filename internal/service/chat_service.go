package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"course-chatbot-be/internal/constant"
	"course-chatbot-be/internal/dto"
	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/pkg/classifier"
	"course-chatbot-be/pkg/events"
	"course-chatbot-be/pkg/grounding"
	"course-chatbot-be/pkg/history"
	"course-chatbot-be/pkg/orchestrator"
	"course-chatbot-be/pkg/retriever/docstore"
	"course-chatbot-be/pkg/retriever/filestore"
	"course-chatbot-be/pkg/store"
	"course-chatbot-be/pkg/stream"
)

const retrievalTopK = 5

type IChatService interface {
	// SendChat runs one chat turn, emitting frames to the caller's emitter.
	SendChat(ctx context.Context, req *dto.SendChatRequest, emitter stream.Emitter) (*dto.SendChatResponse, error)

	// SendWidgetChat runs one widget turn against the session's thread.
	SendWidgetChat(ctx context.Context, sessionID, message string) (*dto.WidgetChatResponse, error)

	// ResetSession clears the widget session's history and thread binding.
	ResetSession(ctx context.Context, sessionID string) error
}

type chatService struct {
	classifier   *classifier.Classifier
	files        *filestore.Retriever
	docs         *docstore.Retriever
	assembler    *grounding.Assembler
	historyStore history.Store
	orchestrator *orchestrator.Orchestrator
	relay        *stream.Relay
	publisher    IPublisherService
	logger       logger.ILogger

	// engineErr is non-nil when the generative backend credentials are
	// missing; chat then degrades to a configuration notice.
	engineErr error
}

func NewChatService(
	cls *classifier.Classifier,
	files *filestore.Retriever,
	docs *docstore.Retriever,
	assembler *grounding.Assembler,
	historyStore history.Store,
	orc *orchestrator.Orchestrator,
	relay *stream.Relay,
	publisher IPublisherService,
	log logger.ILogger,
	engineErr error,
) IChatService {
	return &chatService{
		classifier:   cls,
		files:        files,
		docs:         docs,
		assembler:    assembler,
		historyStore: historyStore,
		orchestrator: orc,
		relay:        relay,
		publisher:    publisher,
		logger:       log,
		engineErr:    engineErr,
	}
}

func (s *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest, emitter stream.Emitter) (*dto.SendChatResponse, error) {
	started := time.Now()

	if s.engineErr != nil {
		s.logger.Warn("ChatService", "engine not configured", map[string]interface{}{
			"error": s.engineErr.Error(),
		})
		if err := s.relay.Send(ctx, emitter, constant.NotConfiguredMessage); err != nil {
			return nil, err
		}
		_ = emitter.Emit(stream.DoneFrame())
		return &dto.SendChatResponse{Message: constant.NotConfiguredMessage}, nil
	}

	instructions, domainQuery, _ := s.ground(ctx, req.Message)

	result, err := s.orchestrator.Run(ctx, req.ThreadId, req.Message, instructions, emitter)
	if err != nil {
		s.logger.Error("ChatService", "chat turn failed", map[string]interface{}{
			"error": err.Error(),
		})
		// the client already holds an open stream; apologize in-band
		if relayErr := s.relay.Send(ctx, emitter, constant.GenericErrorMessage); relayErr != nil {
			return nil, relayErr
		}
		_ = emitter.Emit(stream.DoneFrame())
		return &dto.SendChatResponse{Message: constant.GenericErrorMessage}, nil
	}

	if err := s.relay.Send(ctx, emitter, result.Message); err != nil {
		return nil, err
	}
	_ = emitter.Emit(stream.DoneFrame())

	s.publishEvent(events.NewChatCompleted(result.ThreadID, domainQuery, time.Since(started).Milliseconds()))

	return &dto.SendChatResponse{
		Message:  result.Message,
		ThreadId: result.ThreadID,
	}, nil
}

func (s *chatService) SendWidgetChat(ctx context.Context, sessionID, message string) (*dto.WidgetChatResponse, error) {
	if s.engineErr != nil {
		return &dto.WidgetChatResponse{Message: constant.NotConfiguredMessage}, nil
	}

	instructions, domainQuery, hits := s.ground(ctx, message)

	threadID, err := s.historyStore.ThreadID(ctx, sessionID)
	if err != nil {
		s.logger.Warn("ChatService", "history lookup failed", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
	}

	var collector stream.Collector
	result, err := s.orchestrator.Run(ctx, threadID, message, instructions, &collector)
	if err != nil {
		s.logger.Error("ChatService", "widget turn failed", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
		return &dto.WidgetChatResponse{Message: constant.GenericErrorMessage}, nil
	}

	if err := s.historyStore.BindThread(ctx, sessionID, result.ThreadID); err != nil {
		s.logger.Warn("ChatService", "thread bind failed", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
	}
	s.appendHistory(ctx, sessionID, message, result.Message)

	s.publishEvent(events.NewChatCompleted(result.ThreadID, domainQuery, 0))

	return &dto.WidgetChatResponse{
		Message:    result.Message,
		HasResults: domainQuery && hits > 0,
	}, nil
}

func (s *chatService) ResetSession(ctx context.Context, sessionID string) error {
	if err := s.historyStore.Reset(ctx, sessionID); err != nil {
		return err
	}
	s.publishEvent(events.NewSessionReset(sessionID))
	return nil
}

// ground classifies the message and, for domain queries, runs both
// retrievers concurrently and assembles the grounding text. Off-domain
// messages get the base profile so the assistant still knows who it speaks
// for.
func (s *chatService) ground(ctx context.Context, message string) (instructions string, domainQuery bool, hits int) {
	domainQuery = s.classifier.IsDomainQuery(message)
	if !domainQuery {
		return s.assembler.Build(nil, nil), false, 0
	}

	var fileHits, docHits []store.Candidate
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fileHits = s.files.Search(ctx, message, retrievalTopK)
	}()
	go func() {
		defer wg.Done()
		docHits = s.docs.Search(ctx, message, retrievalTopK)
	}()
	wg.Wait()

	s.publishEvent(events.NewRetrievalPerformed(message, len(fileHits), len(docHits)))

	return s.assembler.Build(fileHits, docHits), true, len(fileHits) + len(docHits)
}

func (s *chatService) appendHistory(ctx context.Context, sessionID, userMsg, assistantMsg string) {
	err := s.historyStore.Append(ctx, sessionID,
		history.Message{Role: constant.ChatMessageRoleUser, Content: userMsg},
		history.Message{Role: constant.ChatMessageRoleAssistant, Content: assistantMsg},
	)
	if err != nil {
		s.logger.Warn("ChatService", "history append failed", map[string]interface{}{
			"session": sessionID,
			"error":   err.Error(),
		})
	}
}

func (s *chatService) publishEvent(evt events.BaseEvent) {
	payload, err := json.Marshal(dto.PublishUsageEventMessage{
		Type:       evt.Type,
		Data:       evt.Data,
		OccurredAt: evt.OccurredAt,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(context.Background(), payload); err != nil {
		s.logger.Warn("ChatService", "usage event publish failed", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}
