package memory

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/mapper"
	"gym-agent-be/internal/repository/contract"

	"github.com/philippgille/chromem-go"
)

const collectionPrefix = "document_chunks_"

var ErrMissingEmbedding = errors.New("chunk has no embedding")

// DocumentChunkRepository is the embedded vector index, a chromem-go database
// persisted under dir. An empty dir keeps it purely in memory.
//
// Each rebuild writes a new collection generation and drops the previous one
// only once the new one is complete.
type DocumentChunkRepository struct {
	db     *chromem.DB
	mapper *mapper.ChromemDocumentMapper

	mu         sync.RWMutex
	generation int
	collection *chromem.Collection
}

// NewDocumentChunkRepository reopens the index persisted in dir if there is one.
func NewDocumentChunkRepository(dir string) (*DocumentChunkRepository, error) {
	db := chromem.NewDB()
	if dir != "" {
		var err error
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("open index %s: %w", dir, err)
		}
	}

	r := &DocumentChunkRepository{db: db, mapper: mapper.NewChromemDocumentMapper()}

	generations := make([]int, 0)
	for name := range db.ListCollections() {
		if gen, ok := parseGeneration(name); ok {
			generations = append(generations, gen)
		}
	}
	sort.Ints(generations)

	if len(generations) == 0 {
		c, err := db.CreateCollection(collectionName(0), nil, noEmbedding)
		if err != nil {
			return nil, fmt.Errorf("create collection: %w", err)
		}
		r.collection = c
		return r, nil
	}

	// A second generation means a rebuild stopped before it finished; the
	// oldest one is the last complete index.
	for _, gen := range generations[1:] {
		if err := db.DeleteCollection(collectionName(gen)); err != nil {
			return nil, fmt.Errorf("drop unfinished index: %w", err)
		}
	}
	r.generation = generations[0]
	r.collection = db.GetCollection(collectionName(r.generation), noEmbedding)
	return r, nil
}

var _ contract.DocumentChunkRepository = (*DocumentChunkRepository)(nil)

func (r *DocumentChunkRepository) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.add(ctx, r.collection, chunks)
}

func (r *DocumentChunkRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(r.collection.Count()), nil
}

func (r *DocumentChunkRepository) FindExistingHashes(ctx context.Context, hashes []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := make(map[string]bool)
	for _, h := range hashes {
		if h == "" {
			continue
		}
		if _, err := r.collection.GetByID(ctx, h); err == nil {
			existing[h] = true
		}
	}
	return existing, nil
}

func (r *DocumentChunkRepository) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredDocumentChunk, error) {
	if limit <= 0 {
		limit = 3
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// chromem rejects a result count above the collection size.
	n := min(limit, r.collection.Count())
	if n == 0 {
		return []*entity.ScoredDocumentChunk{}, nil
	}

	results, err := r.collection.QueryEmbedding(ctx, embedding, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	scored := make([]*entity.ScoredDocumentChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredDocumentChunk{
			Chunk:      r.mapper.ToEntity(res),
			Similarity: float64(res.Similarity),
		}
	}
	return scored, nil
}

// ReplaceAll fills the next generation first, so a failed write keeps serving
// the current one.
func (r *DocumentChunkRepository) ReplaceAll(ctx context.Context, chunks []*entity.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.generation + 1
	if err := r.db.DeleteCollection(collectionName(next)); err != nil {
		return fmt.Errorf("clear next index: %w", err)
	}
	c, err := r.db.CreateCollection(collectionName(next), nil, noEmbedding)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	if err := r.add(ctx, c, chunks); err != nil {
		_ = r.db.DeleteCollection(collectionName(next))
		return err
	}
	if err := r.db.DeleteCollection(collectionName(r.generation)); err != nil {
		_ = r.db.DeleteCollection(collectionName(next))
		return fmt.Errorf("drop previous index: %w", err)
	}

	r.generation, r.collection = next, c
	return nil
}

// add writes chunks to c and removes the ones already written if any fails.
func (r *DocumentChunkRepository) add(ctx context.Context, c *chromem.Collection, chunks []*entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingEmbedding, chunk.ContentHash)
		}
		docs[i] = r.mapper.ToDocument(chunk)
		ids[i] = docs[i].ID
	}

	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		_ = c.Delete(ctx, nil, nil, ids...)
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func noEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, ErrMissingEmbedding
}

func collectionName(generation int) string {
	return collectionPrefix + strconv.Itoa(generation)
}

func parseGeneration(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, collectionPrefix)
	if !ok {
		return 0, false
	}
	gen, err := strconv.Atoi(rest)
	return gen, err == nil
}
