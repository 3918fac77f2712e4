package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/repository/contract"
	"gym-agent-be/pkg/document"
	"gym-agent-be/pkg/embedding"
	"gym-agent-be/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const logModule = "RagStore"

// Store is the document index handle: it loads and chunks source files, embeds
// the chunks and appends them to the vector repository. One Store is built at
// startup and injected wherever the index is needed.
type Store struct {
	dataDir  string
	repo     contract.DocumentChunkRepository
	embedder embedding.EmbeddingProvider
	splitter *utils.RecursiveSplitter
	logger   logger.ILogger

	// writeMu serialises Rebuild and AddDocument from scan to write, so an
	// upload indexed during a rebuild is never dropped by it.
	writeMu sync.Mutex
	// mu keeps searches off the repository while a write lands.
	mu sync.RWMutex
}

type Config struct {
	DataDir      string
	ChunkSize    int
	ChunkOverlap int
}

func New(cfg Config, repo contract.DocumentChunkRepository, embedder embedding.EmbeddingProvider, log logger.ILogger) *Store {
	return &Store{
		dataDir:  cfg.DataDir,
		repo:     repo,
		embedder: embedder,
		splitter: utils.NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		logger:   log,
	}
}

// DataDir is where uploaded source documents live.
func (s *Store) DataDir() string {
	return s.dataDir
}

// LoadDocuments scans the data directory. Files that fail to load are logged and skipped.
func (s *Store) LoadDocuments(ctx context.Context) ([]document.RawDocument, error) {
	docs, err := document.Scan(s.dataDir, func(path string, err error) {
		s.logger.Error(logModule, "Failed to load document, skipping", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(logModule, "Documents loaded", map[string]interface{}{
		"dir":       s.dataDir,
		"documents": len(docs),
	})
	return docs, nil
}

// ProcessDocuments splits every document and drops chunks whose text already
// appeared earlier in the same batch.
func (s *Store) ProcessDocuments(docs []document.RawDocument) ([]*entity.DocumentChunk, int) {
	seen := make(map[string]bool)
	chunks := make([]*entity.DocumentChunk, 0)

	for _, doc := range docs {
		source := filepath.Base(doc.Source)
		for i, piece := range s.splitter.Split(doc.Content) {
			hash := contentHash(piece.Content)
			if seen[hash] {
				continue
			}
			seen[hash] = true

			chunks = append(chunks, &entity.DocumentChunk{
				Id:          uuid.New(),
				Content:     piece.Content,
				ContentHash: hash,
				Source:      source,
				Page:        doc.Page,
				StartIndex:  piece.StartIndex,
				ChunkIndex:  i,
				Metadata: map[string]interface{}{
					"source":      source,
					"page":        doc.Page,
					"start_index": piece.StartIndex,
				},
			})
		}
	}
	return chunks, len(chunks)
}

// Initialize reopens a non-empty index as is and builds it from the data directory otherwise.
func (s *Store) Initialize(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count index: %w", err)
	}

	if count > 0 {
		s.logger.Info(logModule, "Reusing existing vector index", map[string]interface{}{"chunks": count})
		return nil
	}

	s.logger.Info(logModule, "Vector index is empty, building from data directory", map[string]interface{}{"dir": s.dataDir})
	_, err = s.Rebuild(ctx)
	return err
}

// Rebuild replaces the index with every supported file in the data directory.
func (s *Store) Rebuild(ctx context.Context) (int, error) {
	ctx, span := otel.Tracer("gym-agent/rag").Start(ctx, "store.Rebuild")
	defer span.End()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	docs, err := s.LoadDocuments(ctx)
	if err != nil {
		return 0, err
	}
	chunks, count := s.ProcessDocuments(docs)

	if err := s.embed(ctx, chunks); err != nil {
		return 0, err
	}

	s.mu.Lock()
	err = s.repo.ReplaceAll(ctx, chunks)
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("replace index: %w", err)
	}

	span.SetAttributes(attribute.Int("rag.chunks", count))
	s.logger.Info(logModule, "Vector index rebuilt", map[string]interface{}{
		"documents": len(docs),
		"chunks":    count,
	})
	return count, nil
}

// AddDocument indexes one file and returns how many chunks were added. Chunks
// whose text is already in the index are skipped.
func (s *Store) AddDocument(ctx context.Context, path string) (int, error) {
	ctx, span := otel.Tracer("gym-agent/rag").Start(ctx, "store.AddDocument")
	defer span.End()

	docs, err := document.Load(path)
	if err != nil {
		s.logger.Error(logModule, "Failed to load document", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return 0, err
	}

	chunks, _ := s.ProcessDocuments(docs)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	hashes := make([]string, len(chunks))
	for i, c := range chunks {
		hashes[i] = c.ContentHash
	}
	existing, err := s.repo.FindExistingHashes(ctx, hashes)
	if err != nil {
		return 0, fmt.Errorf("check index: %w", err)
	}

	fresh := make([]*entity.DocumentChunk, 0, len(chunks))
	for _, c := range chunks {
		if !existing[c.ContentHash] {
			fresh = append(fresh, c)
		}
	}

	if err := s.embed(ctx, fresh); err != nil {
		s.logger.Error(logModule, "Failed to embed document", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return 0, err
	}

	s.mu.Lock()
	err = s.repo.CreateBulk(ctx, fresh)
	s.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("write index: %w", err)
	}

	span.SetAttributes(attribute.Int("rag.chunks_added", len(fresh)))
	s.logger.Info(logModule, "Document indexed", map[string]interface{}{
		"path":         path,
		"chunks":       len(chunks),
		"chunks_added": len(fresh),
	})
	return len(fresh), nil
}

// SimilaritySearch returns the k chunks closest to query.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]*entity.ScoredDocumentChunk, error) {
	ctx, span := otel.Tracer("gym-agent/rag").Start(ctx, "store.SimilaritySearch")
	defer span.End()

	res, err := s.embedder.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo.SearchSimilar(ctx, res.Embedding.Values, k)
}

// Count is the number of chunks in the index.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Count(ctx)
}

func (s *Store) embed(ctx context.Context, chunks []*entity.DocumentChunk) error {
	now := time.Now()
	for _, c := range chunks {
		res, err := s.embedder.Generate(ctx, c.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d of %s: %w", c.ChunkIndex, c.Source, err)
		}
		c.Embedding = res.Embedding.Values
		c.CreatedAt = now
	}
	return nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
