package service

import (
	"context"
	"encoding/json"
	"time"

	"gym-agent-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const ReindexTopic = "documents.reindex"

type IPublisherService interface {
	PublishReindex(ctx context.Context) (string, error)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishReindex(ctx context.Context) (string, error) {
	job := dto.ReindexJobMessage{
		JobId:       watermill.NewUUID(),
		RequestedAt: time.Now().Format(time.RFC3339),
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return "", err
	}

	msg := message.NewMessage(job.JobId, payload)
	msg.SetContext(ctx)
	if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
		return "", err
	}
	return job.JobId, nil
}
