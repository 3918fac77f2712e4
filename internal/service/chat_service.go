package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/repository/contract"
	"gym-agent-be/pkg/agent"
)

var conversationIdPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// AgentRunner is satisfied by *agent.Agent.
type AgentRunner interface {
	Run(ctx context.Context, prompt string) (*agent.Result, error)
}

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
}

type chatService struct {
	agent         AgentRunner
	conversations contract.ConversationRepository
	logger        logger.ILogger
}

func NewChatService(runner AgentRunner, conversations contract.ConversationRepository, log logger.ILogger) IChatService {
	return &chatService{
		agent:         runner,
		conversations: conversations,
		logger:        log,
	}
}

// ValidConversationID reports whether id can be used as a conversation key.
// The ids end up in file names, so path elements are rejected.
func ValidConversationID(id string) bool {
	return id != "." && id != ".." && conversationIdPattern.MatchString(id)
}

// Chat answers one turn. Without a conversation id the agent runs statelessly;
// with one, prior turns are prepended to the prompt and the new turn is stored.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	conversationId := req.ConversationId
	if conversationId == "" {
		answer, err := s.run(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		return &dto.ChatResponse{ConversationId: nil, Response: answer}, nil
	}

	if !ValidConversationID(conversationId) {
		return nil, ErrInvalidConversationID
	}

	history, err := s.conversations.Load(ctx, conversationId)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	answer, err := s.run(ctx, buildPrompt(history, req.Query))
	if err != nil {
		return nil, err
	}

	err = s.conversations.Append(ctx, conversationId,
		entity.ConversationMessage{Role: entity.RoleUser, Content: req.Query},
		entity.ConversationMessage{Role: entity.RoleAssistant, Content: answer},
	)
	if err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}

	return &dto.ChatResponse{ConversationId: &conversationId, Response: answer}, nil
}

func (s *chatService) Query(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	answer, err := s.run(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return &dto.QueryResponse{Result: answer}, nil
}

func (s *chatService) run(ctx context.Context, prompt string) (string, error) {
	result, err := s.agent.Run(ctx, prompt)
	if err != nil {
		s.logger.Error("ChatService", "Agent run failed", map[string]interface{}{"error": err.Error()})
		return "", err
	}

	tools := make([]string, 0, len(result.Steps))
	for _, step := range result.Steps {
		tools = append(tools, step.Tool)
	}
	s.logger.Info("ChatService", "Agent answered", map[string]interface{}{
		"tool_calls": tools,
		"exhausted":  result.Exhausted,
	})
	return result.Answer, nil
}

// buildPrompt renders the history as "Role: content" lines followed by the new user turn.
func buildPrompt(history []entity.ConversationMessage, query string) string {
	var b strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	fmt.Fprintf(&b, "%s: %s\n", entity.RoleUser, query)
	return b.String()
}
