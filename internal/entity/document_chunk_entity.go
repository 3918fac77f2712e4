package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id          uuid.UUID
	Content     string
	ContentHash string // sha256 hex of Content
	Source      string // base file name
	Page        int    // 1-based PDF page, 0 for text files
	StartIndex  int    // rune offset inside the page or file text
	ChunkIndex  int
	Embedding   []float32
	Metadata    map[string]interface{}
	CreatedAt   time.Time
}

// ScoredDocumentChunk is a search hit with its cosine similarity to the query.
type ScoredDocumentChunk struct {
	Chunk      *DocumentChunk
	Similarity float64
}
