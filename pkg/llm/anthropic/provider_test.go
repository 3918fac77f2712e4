package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gym-agent-be/pkg/llm"

	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAnthropicMessages(t *testing.T) {
	system, msgs := toAnthropicMessages([]llm.Message{
		{Role: llm.RoleSystem, Content: "You answer gym questions."},
		{Role: llm.RoleUser, Content: "List all HIIT classes"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{
			{ID: "t1", Name: "sql_engine", Arguments: `{"query":"SELECT 1"}`},
			{ID: "t2", Name: "retriever", Arguments: `{"query":"hiit"}`},
		}},
		{Role: llm.RoleTool, ToolCallID: "t1", Content: "[]"},
		{Role: llm.RoleTool, ToolCallID: "t2", Content: "docs"},
		{Role: llm.RoleAssistant, Content: "There is one HIIT class."},
	})

	assert.Equal(t, "You answer gym questions.", system)
	// user, assistant(tool_use x2), user(tool_result x2), assistant
	require.Len(t, msgs, 4)
	assert.Len(t, msgs[1].Content, 2)
	assert.Len(t, msgs[2].Content, 2)
}

var sqlTool = llm.ToolDefinition{
	Name:        "sql_engine",
	Description: "Runs read-only SQL",
	Parameters: map[string]any{
		"type":       "object",
		"properties": map[string]any{"query": map[string]any{"type": "string"}},
		"required":   []string{"query"},
	},
}

// recordingServer answers every Messages call with reply and keeps the last request body.
func recordingServer(t *testing.T, reply string) (*AnthropicProvider, *map[string]any) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	provider := NewAnthropicProvider("test-key", "claude-test",
		anthropicopt.WithBaseURL(srv.URL),
		anthropicopt.WithMaxRetries(0),
	)
	return provider, &body
}

func messageReply(content string) string {
	return `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
		"content":` + content + `,"stop_reason":"end_turn","stop_sequence":null,
		"usage":{"input_tokens":12,"output_tokens":4}}`
}

func TestChatReturnsToolUse(t *testing.T) {
	provider, body := recordingServer(t, messageReply(
		`[{"type":"tool_use","id":"toolu_1","name":"sql_engine","input":{"query":"SELECT * FROM gym_classes"}}]`))

	res, err := provider.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "You answer gym questions."},
		{Role: llm.RoleUser, Content: "List all HIIT classes"},
	}, llm.WithTools(sqlTool))
	require.NoError(t, err)

	require.Len(t, res.ToolCalls, 1)
	assert.Equal(t, "toolu_1", res.ToolCalls[0].ID)
	assert.Equal(t, "sql_engine", res.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"SELECT * FROM gym_classes"}`, res.ToolCalls[0].Arguments)

	req := *body
	assert.Equal(t, "claude-test", req["model"])
	assert.Len(t, req["tools"], 1)
	assert.NotContains(t, req, "tool_choice")
	system := req["system"].([]any)
	assert.Equal(t, "You answer gym questions.", system[0].(map[string]any)["text"])
}

func TestChatFinalTurnKeepsToolsDeclared(t *testing.T) {
	provider, body := recordingServer(t, messageReply(`[{"type":"text","text":"There is one HIIT class at 10:30."}]`))

	res, err := provider.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "You answer gym questions."},
		{Role: llm.RoleUser, Content: "List all HIIT classes"},
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{
			{ID: "toolu_1", Name: "sql_engine", Arguments: `{"query":"SELECT 1"}`},
		}},
		{Role: llm.RoleTool, ToolCallID: "toolu_1", Name: "sql_engine", Content: "[]"},
		{Role: llm.RoleUser, Content: "Give your final answer now."},
	}, llm.WithTools(sqlTool), llm.WithToolChoice(llm.ToolChoiceNone))
	require.NoError(t, err)
	assert.Equal(t, "There is one HIIT class at 10:30.", res.Content)

	req := *body
	assert.Len(t, req["tools"], 1, "tool_use blocks in the history need the tools declared")
	assert.Equal(t, map[string]any{"type": "none"}, req["tool_choice"])

	var blockTypes []string
	for _, m := range req["messages"].([]any) {
		content, ok := m.(map[string]any)["content"].([]any)
		if !ok {
			continue
		}
		for _, block := range content {
			blockTypes = append(blockTypes, block.(map[string]any)["type"].(string))
		}
	}
	assert.Contains(t, blockTypes, "tool_use")
	assert.Contains(t, blockTypes, "tool_result")
}

func TestChatEmptyReplyIsAnError(t *testing.T) {
	provider, _ := recordingServer(t, messageReply(`[]`))

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	assert.Error(t, err)
}
