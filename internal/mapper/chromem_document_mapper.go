package mapper

import (
	"strconv"
	"time"

	"gym-agent-be/internal/entity"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
)

// ChromemDocumentMapper maps chunks to chromem documents. The content hash is
// the document id, the remaining chunk fields travel as string metadata.
type ChromemDocumentMapper struct{}

func NewChromemDocumentMapper() *ChromemDocumentMapper {
	return &ChromemDocumentMapper{}
}

func (m *ChromemDocumentMapper) ToDocument(c *entity.DocumentChunk) chromem.Document {
	return chromem.Document{
		ID:        c.ContentHash,
		Content:   c.Content,
		Embedding: c.Embedding,
		Metadata: map[string]string{
			"id":          c.Id.String(),
			"source":      c.Source,
			"page":        strconv.Itoa(c.Page),
			"start_index": strconv.Itoa(c.StartIndex),
			"chunk_index": strconv.Itoa(c.ChunkIndex),
			"created_at":  c.CreatedAt.Format(time.RFC3339Nano),
		},
	}
}

func (m *ChromemDocumentMapper) ToEntity(r chromem.Result) *entity.DocumentChunk {
	id, _ := uuid.Parse(r.Metadata["id"])
	page, _ := strconv.Atoi(r.Metadata["page"])
	startIndex, _ := strconv.Atoi(r.Metadata["start_index"])
	chunkIndex, _ := strconv.Atoi(r.Metadata["chunk_index"])
	createdAt, _ := time.Parse(time.RFC3339Nano, r.Metadata["created_at"])

	return &entity.DocumentChunk{
		Id:          id,
		Content:     r.Content,
		ContentHash: r.ID,
		Source:      r.Metadata["source"],
		Page:        page,
		StartIndex:  startIndex,
		ChunkIndex:  chunkIndex,
		Embedding:   r.Embedding,
		Metadata: map[string]interface{}{
			"source":      r.Metadata["source"],
			"page":        page,
			"start_index": startIndex,
		},
		CreatedAt: createdAt,
	}
}
