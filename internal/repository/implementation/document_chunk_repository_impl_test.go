package implementation

import (
	"context"
	"os"
	"testing"

	"gym-agent-be/internal/entity"
	"gym-agent-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a throwaway database, it clears document_chunks.
func TestDocumentChunkRepositoryPgvector(t *testing.T) {
	dsn := os.Getenv("TEST_DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("TEST_DB_CONNECTION_STRING not set")
	}
	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, MigrateDocumentChunks(ctx, db))

	repo := NewDocumentChunkRepository(db)
	require.NoError(t, repo.ReplaceAll(ctx, []*entity.DocumentChunk{
		{Id: uuid.New(), Content: "stale", ContentHash: "h0", Source: "old.txt", Embedding: []float32{0, 0, 1}},
	}))

	err = repo.ReplaceAll(ctx, []*entity.DocumentChunk{
		{Id: uuid.New(), Content: "east", ContentHash: "h1", Source: "a.txt", Embedding: []float32{1, 0, 0}},
		{Id: uuid.New(), Content: "north", ContentHash: "h2", Source: "a.txt", Embedding: []float32{0, 1, 0}},
	})
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	existing, err := repo.FindExistingHashes(ctx, []string{"h0", "h2", "h9"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"h2": true}, existing)

	results, err := repo.SearchSimilar(ctx, []float32{0.9, 0.1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "east", results[0].Chunk.Content)
	assert.Greater(t, results[0].Similarity, 0.9)

	require.NoError(t, repo.CreateBulk(ctx, []*entity.DocumentChunk{
		{Id: uuid.New(), Content: "south", ContentHash: "h3", Source: "b.txt", Embedding: []float32{0, -1, 0}},
	}))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, repo.ReplaceAll(ctx, nil))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDocumentChunkRepositoryReplaceAllRollsBack(t *testing.T) {
	dsn := os.Getenv("TEST_DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("TEST_DB_CONNECTION_STRING not set")
	}
	db, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, MigrateDocumentChunks(ctx, db))

	repo := NewDocumentChunkRepository(db)
	require.NoError(t, repo.ReplaceAll(ctx, []*entity.DocumentChunk{
		{Id: uuid.New(), Content: "keep", ContentHash: "k1", Source: "a.txt", Embedding: []float32{1, 0, 0}},
	}))

	dup := uuid.New()
	err = repo.ReplaceAll(ctx, []*entity.DocumentChunk{
		{Id: dup, Content: "one", ContentHash: "d1", Source: "b.txt", Embedding: []float32{0, 1, 0}},
		{Id: dup, Content: "two", ContentHash: "d2", Source: "b.txt", Embedding: []float32{0, 0, 1}},
	})
	require.Error(t, err)

	existing, err := repo.FindExistingHashes(ctx, []string{"k1", "d1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"k1": true}, existing)

	require.NoError(t, repo.ReplaceAll(ctx, nil))
}
