package service

import (
	"context"
	"encoding/json"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService runs queued reindex jobs one at a time.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	index      DocumentIndex
	events     IEventService
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	index DocumentIndex,
	events IEventService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		index:      index,
		events:     events,
		logger:     log,
	}
}

// Consume subscribes and processes messages in the background until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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

// processMessage acks every message, failed jobs included. A failed rebuild is
// logged and left for the operator to retry.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var job dto.ReindexJobMessage
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal reindex job", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	cs.logger.Info("ConsumerService", "Rebuilding vector index", map[string]interface{}{"job_id": job.JobId})

	chunks, err := cs.index.Rebuild(ctx)
	if err != nil {
		cs.logger.Error("ConsumerService", "Reindex failed", map[string]interface{}{
			"job_id": job.JobId,
			"error":  err.Error(),
		})
		return
	}

	cs.events.PublishIndexRebuilt(ctx, job.JobId, chunks)
	cs.logger.Info("ConsumerService", "Reindex finished", map[string]interface{}{
		"job_id": job.JobId,
		"chunks": chunks,
	})
}
