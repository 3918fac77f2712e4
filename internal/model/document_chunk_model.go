package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// DocumentChunk is one row of the pgvector index. The vector column has no fixed
// dimension so the embedding model can be swapped without a migration.
type DocumentChunk struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Content     string          `gorm:"type:text;not null"`
	ContentHash string          `gorm:"type:char(64);not null;index"`
	Source      string          `gorm:"type:varchar(255);not null;index"`
	Page        int             `gorm:"default:0"`
	StartIndex  int             `gorm:"default:0"`
	ChunkIndex  int             `gorm:"default:0"`
	Embedding   pgvector.Vector `gorm:"type:vector"`
	Metadata    datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
