package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/repository/contract"

	"github.com/cespare/xxhash/v2"
)

const conversationLockStripes = 64

// ConversationFileRepositoryImpl keeps one JSON file per conversation under dir.
// Appends on the same id are serialised by a lock striped over a fixed set of
// mutexes, and files are replaced atomically with a rename.
type ConversationFileRepositoryImpl struct {
	dir         string
	maxMessages int
	locks       [conversationLockStripes]sync.Mutex
}

func NewConversationFileRepository(dir string, maxMessages int) (contract.ConversationRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create conversation dir: %w", err)
	}
	return &ConversationFileRepositoryImpl{dir: dir, maxMessages: maxMessages}, nil
}

func (r *ConversationFileRepositoryImpl) path(conversationId string) string {
	return filepath.Join(r.dir, conversationId+".json")
}

func (r *ConversationFileRepositoryImpl) lock(conversationId string) *sync.Mutex {
	return &r.locks[xxhash.Sum64String(conversationId)%conversationLockStripes]
}

func (r *ConversationFileRepositoryImpl) Load(ctx context.Context, conversationId string) ([]entity.ConversationMessage, error) {
	mu := r.lock(conversationId)
	mu.Lock()
	defer mu.Unlock()

	return r.read(conversationId)
}

func (r *ConversationFileRepositoryImpl) Save(ctx context.Context, conversationId string, messages []entity.ConversationMessage) error {
	mu := r.lock(conversationId)
	mu.Lock()
	defer mu.Unlock()

	return r.write(conversationId, messages)
}

func (r *ConversationFileRepositoryImpl) Append(ctx context.Context, conversationId string, messages ...entity.ConversationMessage) error {
	mu := r.lock(conversationId)
	mu.Lock()
	defer mu.Unlock()

	history, err := r.read(conversationId)
	if err != nil {
		return err
	}
	history = append(history, messages...)
	if r.maxMessages > 0 && len(history) > r.maxMessages {
		history = history[len(history)-r.maxMessages:]
	}
	return r.write(conversationId, history)
}

func (r *ConversationFileRepositoryImpl) read(conversationId string) ([]entity.ConversationMessage, error) {
	raw, err := os.ReadFile(r.path(conversationId))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entity.ConversationMessage{}, nil
		}
		return nil, fmt.Errorf("read conversation %s: %w", conversationId, err)
	}

	messages := make([]entity.ConversationMessage, 0)
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", conversationId, err)
	}
	return messages, nil
}

func (r *ConversationFileRepositoryImpl) write(conversationId string, messages []entity.ConversationMessage) error {
	if messages == nil {
		messages = []entity.ConversationMessage{}
	}
	raw, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, conversationId+".*.tmp")
	if err != nil {
		return fmt.Errorf("write conversation %s: %w", conversationId, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write conversation %s: %w", conversationId, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write conversation %s: %w", conversationId, err)
	}
	return os.Rename(tmp.Name(), r.path(conversationId))
}
