package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
)

// IngestDocumentUseCase accepts an uploaded file, stores the raw bytes,
// records the source row and hands processing off to the worker via the
// queue. Enrichment and indexing happen asynchronously.
type IngestDocumentUseCase struct {
	sources ports.SourceRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	logger  *slog.Logger
}

func NewIngestDocumentUseCase(sources ports.SourceRepository, storage ports.ObjectStorage, queue ports.MessageQueue, logger *slog.Logger) *IngestDocumentUseCase {
	return &IngestDocumentUseCase{
		sources: sources,
		storage: storage,
		queue:   queue,
		logger:  logger,
	}
}

func (uc *IngestDocumentUseCase) Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.SourceDocument, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil, fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	src := &domain.SourceDocument{
		ID:          uuid.NewString(),
		Filename:    filename,
		MimeType:    mimeType,
		Status:      domain.SourceUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
		Metadata:    domain.Metadata{Filename: filename},
		StoragePath: "",
	}
	src.StoragePath = src.ID + "/" + filename

	if err := uc.storage.Save(ctx, src.StoragePath, body); err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "store upload", err)
	}
	if err := uc.sources.Create(ctx, src); err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "record source", err)
	}
	if err := uc.queue.PublishDocumentIngested(ctx, src.ID); err != nil {
		// The row exists and the file is stored; processing can be retried by
		// republishing, so surface the failure instead of rolling back.
		return nil, domain.WrapError(domain.ErrTemporary, "enqueue processing", err)
	}

	uc.logger.Info("document uploaded", "document_id", src.ID, "filename", filename, "mime_type", mimeType)
	return src, nil
}
