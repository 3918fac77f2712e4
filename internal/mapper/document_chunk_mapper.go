package mapper

import (
	"encoding/json"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(c.Metadata) > 0 {
		_ = json.Unmarshal(c.Metadata, &metadata)
	}

	return &entity.DocumentChunk{
		Id:          c.Id,
		Content:     c.Content,
		ContentHash: c.ContentHash,
		Source:      c.Source,
		Page:        c.Page,
		StartIndex:  c.StartIndex,
		ChunkIndex:  c.ChunkIndex,
		Embedding:   c.Embedding.Slice(),
		Metadata:    metadata,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToModel(c *entity.DocumentChunk) *model.DocumentChunk {
	if c == nil {
		return nil
	}

	var metadata datatypes.JSON
	if c.Metadata != nil {
		if raw, err := json.Marshal(c.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.DocumentChunk{
		Id:          c.Id,
		Content:     c.Content,
		ContentHash: c.ContentHash,
		Source:      c.Source,
		Page:        c.Page,
		StartIndex:  c.StartIndex,
		ChunkIndex:  c.ChunkIndex,
		Embedding:   pgvector.NewVector(c.Embedding),
		Metadata:    metadata,
		CreatedAt:   c.CreatedAt,
	}
}
