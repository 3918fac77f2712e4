package ollama

import (
	"context"
	"os"
	"testing"
	"time"

	"gym-agent-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Ollama server, e.g.
// OLLAMA_INTEGRATION=1 OLLAMA_MODEL=llama3.1 go test ./pkg/llm/ollama -run Live
func TestLiveChat(t *testing.T) {
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("OLLAMA_INTEGRATION not set")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "llama3.1"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider := NewOllamaProvider(baseURL, model)
	res, err := provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: "Answer with a single word."},
		{Role: llm.RoleUser, Content: "What colour is the sky on a clear day?"},
	}, llm.WithTemperature(0))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Content)
}
