package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const conversationKeyPrefix = "conversation:"

// ConversationRedisRepositoryImpl stores each conversation as a Redis list of JSON
// encoded messages. RPUSH gives atomic appends without a read-modify-write.
type ConversationRedisRepositoryImpl struct {
	rdb         *redis.Client
	maxMessages int
}

func NewConversationRedisRepository(rdb *redis.Client, maxMessages int) contract.ConversationRepository {
	return &ConversationRedisRepositoryImpl{rdb: rdb, maxMessages: maxMessages}
}

func conversationKey(conversationId string) string {
	return conversationKeyPrefix + conversationId
}

func (r *ConversationRedisRepositoryImpl) Load(ctx context.Context, conversationId string) ([]entity.ConversationMessage, error) {
	items, err := r.rdb.LRange(ctx, conversationKey(conversationId), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationId, err)
	}

	messages := make([]entity.ConversationMessage, 0, len(items))
	for _, item := range items {
		var m entity.ConversationMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("decode conversation %s: %w", conversationId, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *ConversationRedisRepositoryImpl) Save(ctx context.Context, conversationId string, messages []entity.ConversationMessage) error {
	values, err := encodeMessages(messages)
	if err != nil {
		return err
	}

	key := conversationKey(conversationId)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	return err
}

func (r *ConversationRedisRepositoryImpl) Append(ctx context.Context, conversationId string, messages ...entity.ConversationMessage) error {
	if len(messages) == 0 {
		return nil
	}
	values, err := encodeMessages(messages)
	if err != nil {
		return err
	}

	key := conversationKey(conversationId)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if r.maxMessages > 0 {
			pipe.LTrim(ctx, key, int64(-r.maxMessages), -1)
		}
		return nil
	})
	return err
}

func encodeMessages(messages []entity.ConversationMessage) ([]interface{}, error) {
	values := make([]interface{}, len(messages))
	for i, m := range messages {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		values[i] = string(raw)
	}
	return values, nil
}
