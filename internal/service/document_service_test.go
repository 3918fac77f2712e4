package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/pkg/document"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	dir      string
	added    []string
	addErr   error
	rebuilds chan struct{}
}

func (f *fakeIndex) DataDir() string { return f.dir }

func (f *fakeIndex) AddDocument(ctx context.Context, path string) (int, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.added = append(f.added, path)
	return 2, nil
}

func (f *fakeIndex) Rebuild(ctx context.Context) (int, error) {
	if f.rebuilds != nil {
		f.rebuilds <- struct{}{}
	}
	return 7, nil
}

type stubPublisher struct{ jobId string }

func (s stubPublisher) PublishReindex(ctx context.Context) (string, error) { return s.jobId, nil }

func TestUploadSavesAndIndexes(t *testing.T) {
	index := &fakeIndex{dir: t.TempDir()}
	events := &recordingEvents{}
	svc := NewDocumentService(index, stubPublisher{}, events, logger.NewNopLogger())

	res, err := svc.Upload(context.Background(), "../../policy.txt", strings.NewReader("Open 6am to 11pm."))
	require.NoError(t, err)

	assert.Equal(t, &dto.UploadDocumentResponse{
		Message:     "Document uploaded and processed successfully",
		Filename:    "policy.txt",
		ChunksAdded: 2,
	}, res)

	saved := filepath.Join(index.dir, "policy.txt")
	raw, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "Open 6am to 11pm.", string(raw))
	assert.Equal(t, []string{saved}, index.added)
	assert.Equal(t, []string{"policy.txt"}, events.documents)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	index := &fakeIndex{dir: t.TempDir()}
	svc := NewDocumentService(index, stubPublisher{}, &recordingEvents{}, logger.NewNopLogger())

	_, err := svc.Upload(context.Background(), "notes.docx", strings.NewReader("x"))
	require.ErrorIs(t, err, document.ErrUnsupportedFileType)
	var ce *clientError
	assert.ErrorAs(t, err, &ce)

	entries, _ := os.ReadDir(index.dir)
	assert.Empty(t, entries, "nothing is written")
	assert.Empty(t, index.added)
}

func TestUploadProcessingFailure(t *testing.T) {
	index := &fakeIndex{dir: t.TempDir(), addErr: errors.New("embedding service down")}
	events := &recordingEvents{}
	svc := NewDocumentService(index, stubPublisher{}, events, logger.NewNopLogger())

	_, err := svc.Upload(context.Background(), "policy.pdf", strings.NewReader("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service down")
	assert.Empty(t, events.documents)
}

func TestReindexFlowsThroughPubSub(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	index := &fakeIndex{dir: t.TempDir(), rebuilds: make(chan struct{}, 1)}
	events := &recordingEvents{}
	log := logger.NewNopLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := NewConsumerService(pubSub, ReindexTopic, index, events, log)
	require.NoError(t, consumer.Consume(ctx))

	svc := NewDocumentService(index, NewPublisherService(ReindexTopic, pubSub), events, log)
	res, err := svc.RequestReindex(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, res.JobId)

	select {
	case <-index.rebuilds:
	case <-time.After(5 * time.Second):
		t.Fatal("reindex job was not consumed")
	}
}
