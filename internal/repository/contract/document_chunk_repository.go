package contract

import (
	"context"

	"gym-agent-be/internal/entity"
)

// DocumentChunkRepository is the vector index. Implementations own the storage of
// embeddings and the similarity ordering.
type DocumentChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	Count(ctx context.Context) (int64, error)
	// FindExistingHashes returns the subset of hashes already present in the index.
	FindExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error)
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error)
	// ReplaceAll swaps the whole index for chunks. A failed write leaves the previous index in place.
	ReplaceAll(ctx context.Context, chunks []*entity.DocumentChunk) error
}
