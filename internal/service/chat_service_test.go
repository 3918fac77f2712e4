package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/repository/implementation"
	"gym-agent-be/pkg/agent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	prompts []string
	answer  string
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, prompt string) (*agent.Result, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &agent.Result{Answer: f.answer, Steps: []agent.Step{{Number: 1, Tool: "retriever"}}}, nil
}

func newChatService(t *testing.T, runner AgentRunner) IChatService {
	repo, err := implementation.NewConversationFileRepository(t.TempDir(), 0)
	require.NoError(t, err)
	return NewChatService(runner, repo, logger.NewNopLogger())
}

func TestChatStatelessPassesQueryThrough(t *testing.T) {
	runner := &fakeRunner{answer: "We open at 6am."}
	svc := newChatService(t, runner)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{Query: "When do you open?"})
	require.NoError(t, err)

	assert.Nil(t, res.ConversationId)
	assert.Equal(t, "We open at 6am.", res.Response)
	assert.Equal(t, []string{"When do you open?"}, runner.prompts)
}

func TestChatWithConversationReplaysHistory(t *testing.T) {
	runner := &fakeRunner{answer: "first answer"}
	svc := newChatService(t, runner)
	ctx := context.Background()

	res, err := svc.Chat(ctx, &dto.ChatRequest{Query: "hi", ConversationId: "abc"})
	require.NoError(t, err)
	require.NotNil(t, res.ConversationId)
	assert.Equal(t, "abc", *res.ConversationId)
	assert.Equal(t, "User: hi\n", runner.prompts[0])

	runner.answer = "second answer"
	_, err = svc.Chat(ctx, &dto.ChatRequest{Query: "and yoga?", ConversationId: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "User: hi\nAssistant: first answer\nUser: and yoga?\n", runner.prompts[1])
}

func TestChatRejectsBadInput(t *testing.T) {
	runner := &fakeRunner{answer: "x"}
	svc := newChatService(t, runner)

	for _, id := range []string{"..", ".", "../etc/passwd", "a b", strings.Repeat("a", 129)} {
		_, err := svc.Chat(context.Background(), &dto.ChatRequest{Query: "hi", ConversationId: id})
		assert.ErrorIs(t, err, ErrInvalidConversationID, "id %q", id)
	}

	_, err := svc.Chat(context.Background(), &dto.ChatRequest{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, runner.prompts)
}

func TestChatAgentFailureStoresNothing(t *testing.T) {
	repo, err := implementation.NewConversationFileRepository(t.TempDir(), 0)
	require.NoError(t, err)
	svc := NewChatService(&fakeRunner{err: errors.New("llm down")}, repo, logger.NewNopLogger())

	_, err = svc.Chat(context.Background(), &dto.ChatRequest{Query: "hi", ConversationId: "abc"})
	require.EqualError(t, err, "llm down")

	history, err := repo.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestQueryReturnsResult(t *testing.T) {
	svc := newChatService(t, &fakeRunner{answer: "HIIT is at 10:30."})

	res, err := svc.Query(context.Background(), &dto.QueryRequest{Query: "List all HIIT classes"})
	require.NoError(t, err)
	assert.Equal(t, "HIIT is at 10:30.", res.Result)
}

func TestBuildPrompt(t *testing.T) {
	history := []entity.ConversationMessage{
		{Role: entity.RoleUser, Content: "q1"},
		{Role: entity.RoleAssistant, Content: "a1"},
	}
	assert.Equal(t, "User: q1\nAssistant: a1\nUser: q2\n", buildPrompt(history, "q2"))
	assert.Equal(t, "User: q\n", buildPrompt(nil, "q"))
}
