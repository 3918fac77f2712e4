package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/pkg/document"
)

// DocumentIndex is satisfied by *store.Store.
type DocumentIndex interface {
	DataDir() string
	AddDocument(ctx context.Context, path string) (int, error)
	Rebuild(ctx context.Context) (int, error)
}

type IDocumentService interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*dto.UploadDocumentResponse, error)
	RequestReindex(ctx context.Context) (*dto.ReindexResponse, error)
}

type documentService struct {
	index     DocumentIndex
	publisher IPublisherService
	events    IEventService
	logger    logger.ILogger
}

func NewDocumentService(index DocumentIndex, publisher IPublisherService, events IEventService, log logger.ILogger) IDocumentService {
	return &documentService{
		index:     index,
		publisher: publisher,
		events:    events,
		logger:    log,
	}
}

// Upload saves the file under the data directory by its base name, replacing
// any previous file with that name, and indexes it.
func (s *documentService) Upload(ctx context.Context, filename string, content io.Reader) (*dto.UploadDocumentResponse, error) {
	name := filepath.Base(filename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, ErrInvalidFilename
	}
	if !document.IsSupported(name) {
		return nil, newClientError(fmt.Errorf("%w: only .pdf and .txt files are accepted", document.ErrUnsupportedFileType))
	}

	path := filepath.Join(s.index.DataDir(), name)
	if err := saveFile(path, content); err != nil {
		s.logger.Error("DocumentService", "Failed to save upload", map[string]interface{}{
			"filename": name,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	added, err := s.index.AddDocument(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	s.events.PublishDocumentIndexed(ctx, name, added)

	return &dto.UploadDocumentResponse{
		Message:     "Document uploaded and processed successfully",
		Filename:    name,
		ChunksAdded: added,
	}, nil
}

// RequestReindex queues a full rebuild of the index for the background consumer.
func (s *documentService) RequestReindex(ctx context.Context) (*dto.ReindexResponse, error) {
	jobId, err := s.publisher.PublishReindex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to queue reindex: %w", err)
	}
	return &dto.ReindexResponse{
		Message: "Reindex queued",
		JobId:   jobId,
	}, nil
}

func saveFile(path string, content io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
