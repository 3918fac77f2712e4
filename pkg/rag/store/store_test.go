package store

import (
	"context"
	"errors"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"gym-agent-be/internal/entity"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/repository/contract"
	"gym-agent-be/internal/repository/memory"
	"gym-agent-be/pkg/document"
	"gym-agent-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bagOfWords embeds text as hashed word counts, enough for similarity ordering in tests.
type bagOfWords struct {
	calls      int
	fail       bool
	onGenerate func()
}

func (b *bagOfWords) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	b.calls++
	if b.onGenerate != nil {
		b.onGenerate()
	}
	if b.fail {
		return nil, errors.New("embedding service down")
	}
	vec := make([]float32, 64)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,?!:;")
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%64]++
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: vec}}, nil
}

func newTestStore(t *testing.T, dataDir, indexDir string) (*Store, *bagOfWords) {
	repo, err := memory.NewDocumentChunkRepository(indexDir)
	require.NoError(t, err)
	emb := &bagOfWords{}
	s := New(Config{DataDir: dataDir, ChunkSize: 500, ChunkOverlap: 50}, repo, emb, logger.NewNopLogger())
	return s, emb
}

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessDocumentsDeduplicatesWithinBatch(t *testing.T) {
	s, _ := newTestStore(t, t.TempDir(), "")

	boilerplate := "Gym Policies. All rights reserved."
	docs := []document.RawDocument{
		{Source: "/data/a.pdf", Page: 1, Content: boilerplate},
		{Source: "/data/a.pdf", Page: 2, Content: boilerplate},
		{Source: "/data/b.txt", Content: "Towels are provided at the front desk."},
	}

	chunks, count := s.ProcessDocuments(docs)

	assert.Equal(t, 2, count)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a.pdf", chunks[0].Source)
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, "b.txt", chunks[1].Source)
	assert.NotEqual(t, chunks[0].ContentHash, chunks[1].ContentHash)
	assert.Equal(t, "b.txt", chunks[1].Metadata["source"])

	again, _ := s.ProcessDocuments(docs)
	assert.Len(t, again, 2, "dedup is stable across runs")
}

func TestAddDocumentUnsupportedType(t *testing.T) {
	dataDir := t.TempDir()
	s, emb := newTestStore(t, dataDir, "")
	path := writeFile(t, dataDir, "notes.docx", "hello")

	added, err := s.AddDocument(context.Background(), path)

	assert.ErrorIs(t, err, document.ErrUnsupportedFileType)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, emb.calls)
	count, _ := s.Count(context.Background())
	assert.Zero(t, count)
}

func TestAddDocumentThenSearch(t *testing.T) {
	dataDir := t.TempDir()
	s, _ := newTestStore(t, dataDir, "")
	ctx := context.Background()

	hours := writeFile(t, dataDir, "policy.txt", "The gym opening hours are 6am to 11pm on weekdays.")
	lockers := writeFile(t, dataDir, "lockers.txt", "Lockers must be emptied every night. Padlocks are sold at reception.")

	added, err := s.AddDocument(ctx, hours)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, added, 1)

	added, err = s.AddDocument(ctx, lockers)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	results, err := s.SimilaritySearch(ctx, "gym opening hours", 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Chunk.Content, "opening hours")
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
}

func TestAddDocumentSkipsChunksAlreadyIndexed(t *testing.T) {
	dataDir := t.TempDir()
	s, _ := newTestStore(t, dataDir, "")
	ctx := context.Background()

	path := writeFile(t, dataDir, "policy.txt", "Guests pay a day fee.")
	first, err := s.AddDocument(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, first)

	copyPath := writeFile(t, dataDir, "policy-copy.txt", "Guests pay a day fee.")
	second, err := s.AddDocument(ctx, copyPath)
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	count, _ := s.Count(ctx)
	assert.EqualValues(t, 1, count)
}

func TestAddDocumentEmbeddingFailureAddsNothing(t *testing.T) {
	dataDir := t.TempDir()
	s, emb := newTestStore(t, dataDir, "")
	emb.fail = true

	_, err := s.AddDocument(context.Background(), writeFile(t, dataDir, "policy.txt", "Showers close at 10pm."))
	require.Error(t, err)

	count, _ := s.Count(context.Background())
	assert.Zero(t, count)
}

func TestInitializeBuildsOnceAndReopens(t *testing.T) {
	dataDir := t.TempDir()
	indexDir := filepath.Join(t.TempDir(), "vector_index")
	ctx := context.Background()

	writeFile(t, dataDir, "rules.txt", "No outdoor shoes on the gym floor.\n\nWipe down equipment after use.")
	writeFile(t, dataDir, "broken.pdf", "definitely not a pdf")
	writeFile(t, dataDir, "readme.md", "ignored")

	s, emb := newTestStore(t, dataDir, indexDir)
	require.NoError(t, s.Initialize(ctx))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 1, emb.calls)

	reopened, emb2 := newTestStore(t, dataDir, indexDir)
	require.NoError(t, reopened.Initialize(ctx))
	assert.Zero(t, emb2.calls, "a non-empty index is not rebuilt")
	count, err = reopened.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestRebuildReplacesIndex(t *testing.T) {
	dataDir := t.TempDir()
	s, _ := newTestStore(t, dataDir, "")
	ctx := context.Background()

	writeFile(t, dataDir, "a.txt", "Spinning bikes must be booked.")
	n, err := s.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	writeFile(t, dataDir, "b.txt", "Saunas are mixed.")
	n, err = s.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, _ := s.Count(ctx)
	assert.EqualValues(t, 2, count)
}

func TestAddDocumentDuringRebuildIsKept(t *testing.T) {
	dataDir := t.TempDir()
	s, emb := newTestStore(t, dataDir, "")
	ctx := context.Background()

	writeFile(t, dataDir, "rules.txt", "Wipe down equipment after use.")
	policy := filepath.Join(dataDir, "policy.txt")

	type outcome struct {
		added int
		err   error
	}
	done := make(chan outcome, 1)
	var once sync.Once
	emb.onGenerate = func() {
		once.Do(func() {
			// The rebuild has already scanned the directory when the upload lands.
			require.NoError(t, os.WriteFile(policy, []byte("Guests pay a day fee at reception."), 0o644))
			go func() {
				added, err := s.AddDocument(ctx, policy)
				done <- outcome{added, err}
			}()
		})
	}

	n, err := s.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	upload := <-done
	require.NoError(t, upload.err)
	assert.Equal(t, 1, upload.added)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

// failingReplace rejects every ReplaceAll.
type failingReplace struct {
	contract.DocumentChunkRepository
}

func (f failingReplace) ReplaceAll(ctx context.Context, chunks []*entity.DocumentChunk) error {
	return errors.New("disk full")
}

func TestRebuildFailureKeepsPreviousIndex(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	repo, err := memory.NewDocumentChunkRepository("")
	require.NoError(t, err)
	s := New(Config{DataDir: dataDir, ChunkSize: 500, ChunkOverlap: 50}, repo, &bagOfWords{}, logger.NewNopLogger())
	writeFile(t, dataDir, "a.txt", "Spinning bikes must be booked.")
	_, err = s.Rebuild(ctx)
	require.NoError(t, err)

	broken := New(Config{DataDir: dataDir, ChunkSize: 500, ChunkOverlap: 50}, failingReplace{repo}, &bagOfWords{}, logger.NewNopLogger())
	writeFile(t, dataDir, "b.txt", "Saunas are mixed.")
	_, err = broken.Rebuild(ctx)
	require.Error(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
