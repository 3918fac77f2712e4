package service

import (
	"context"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/pkg/events"
)

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IEventService emits domain events. Publishing is best effort: failures are
// logged and never fail the request that caused them.
type IEventService interface {
	PublishDocumentIndexed(ctx context.Context, filename string, chunksAdded int)
	PublishClassCreated(ctx context.Context, class *entity.GymClass)
	PublishIndexRebuilt(ctx context.Context, jobId string, chunks int)
}

type eventService struct {
	publisher EventPublisher
	logger    logger.ILogger
}

// NewEventService returns a service that drops every event when publisher is nil.
func NewEventService(publisher EventPublisher, log logger.ILogger) IEventService {
	return &eventService{publisher: publisher, logger: log}
}

func (s *eventService) PublishDocumentIndexed(ctx context.Context, filename string, chunksAdded int) {
	s.publish(ctx, events.DocumentIndexed(filename, chunksAdded))
}

func (s *eventService) PublishClassCreated(ctx context.Context, class *entity.GymClass) {
	s.publish(ctx, events.ClassCreated(class.ClassId, class.InstructorName, class.ClassName, class.StartTime))
}

func (s *eventService) PublishIndexRebuilt(ctx context.Context, jobId string, chunks int) {
	s.publish(ctx, events.IndexRebuilt(jobId, chunks))
}

func (s *eventService) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("EventService", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
