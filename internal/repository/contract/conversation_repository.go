package contract

import (
	"context"

	"gym-agent-be/internal/entity"
)

type ConversationRepository interface {
	// Load returns the stored messages, or an empty slice for an unknown id.
	Load(ctx context.Context, conversationId string) ([]entity.ConversationMessage, error)
	// Save replaces the whole history of the conversation.
	Save(ctx context.Context, conversationId string, messages []entity.ConversationMessage) error
	// Append adds messages atomically with respect to other appends on the same id.
	Append(ctx context.Context, conversationId string, messages ...entity.ConversationMessage) error
}
