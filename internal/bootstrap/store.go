package bootstrap

import (
	"context"
	"fmt"
	"time"

	"gym-agent-be/internal/config"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/repository/contract"
	"gym-agent-be/internal/repository/implementation"
	"gym-agent-be/internal/repository/memory"
	"gym-agent-be/pkg/database"
	"gym-agent-be/pkg/embedding"
	"gym-agent-be/pkg/rag/store"
)

const queryEmbeddingTTL = 15 * time.Minute

// NewEmbeddingProvider picks the embedding backend and wraps it with the query cache.
func NewEmbeddingProvider(cfg config.AIConfig) (embedding.EmbeddingProvider, error) {
	var provider embedding.EmbeddingProvider
	switch cfg.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaEmbeddingModel)
	case "openai":
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("openai embeddings need OPENAI_API_KEY or OPENAI_BASE_URL")
		}
		provider = embedding.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
	return embedding.NewCachedProvider(provider, queryEmbeddingTTL), nil
}

// NewVectorRepository opens the configured vector index. The returned close
// function releases the backing connection.
func NewVectorRepository(ctx context.Context, cfg config.StorageConfig) (contract.DocumentChunkRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.VectorStore {
	case "local", "":
		repo, err := memory.NewDocumentChunkRepository(cfg.VectorIndexDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil
	case "postgres":
		if cfg.DBConnection == "" {
			return nil, nil, fmt.Errorf("postgres vector store needs DB_CONNECTION_STRING")
		}
		db, err := database.NewGormDBFromDSN(cfg.DBConnection)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if err := implementation.MigrateDocumentChunks(ctx, db); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("migrate document_chunks: %w", err)
		}
		return implementation.NewDocumentChunkRepository(db), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported vector store: %s", cfg.VectorStore)
	}
}

// NewDocumentStore builds the store over the configured index and embedder.
// It does not load anything; callers decide between Initialize and Rebuild.
func NewDocumentStore(ctx context.Context, cfg *config.Config, log logger.ILogger) (*store.Store, func() error, error) {
	embedder, err := NewEmbeddingProvider(cfg.Ai)
	if err != nil {
		return nil, nil, err
	}

	repo, closeRepo, err := NewVectorRepository(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}

	s := store.New(store.Config{
		DataDir:      cfg.Storage.DataDir,
		ChunkSize:    cfg.Rag.ChunkSize,
		ChunkOverlap: cfg.Rag.ChunkOverlap,
	}, repo, embedder, log)

	log.Info("Bootstrap", "Document store ready", map[string]interface{}{
		"vector_store": cfg.Storage.VectorStore,
		"embedding":    cfg.Ai.EmbeddingProvider,
	})
	return s, closeRepo, nil
}
