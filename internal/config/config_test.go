package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", "var")
	t.Setenv("CHUNK_SIZE", "not-a-number")

	cfg := Load()

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, filepath.Join("var", "conversations"), cfg.Storage.ConversationDir)
	assert.Equal(t, filepath.Join("var", "gym_classes.db"), cfg.Storage.ClassesDBPath)
	assert.Equal(t, 500, cfg.Rag.ChunkSize, "invalid ints fall back to the default")
	assert.Equal(t, 50, cfg.Rag.ChunkOverlap)
	assert.Equal(t, 3, cfg.Rag.TopK)
	assert.Equal(t, 4, cfg.Ai.AgentMaxSteps)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("GO_ENV", "production")
	t.Setenv("VECTOR_STORE", "postgres")
	t.Setenv("AGENT_MAX_STEPS", "6")
	t.Setenv("CONVERSATION_MAX_MESSAGES", "40")

	cfg := Load()

	assert.Equal(t, "9000", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.Storage.VectorStore)
	assert.Equal(t, 6, cfg.Ai.AgentMaxSteps)
	assert.Equal(t, 40, cfg.Storage.ConversationMaxMessages)
}
