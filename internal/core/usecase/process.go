package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
)

// enrichSampleLimit caps the text handed to the metadata enricher. Enriched
// attributes describe the document as a whole; the opening text is enough.
const enrichSampleLimit = 6000

// ProcessDocumentUseCase runs the ingestion pipeline for one uploaded
// source: extract text, enrich metadata, chunk, embed and index. Extractors
// that emit multiple fragments (row-oriented spreadsheets) index one chunk
// per fragment; single-fragment formats are split by the chunker.
type ProcessDocumentUseCase struct {
	sources   ports.SourceRepository
	extractor ports.TextExtractor
	enricher  ports.MetadataEnricher
	chunker   ports.Chunker
	embedder  ports.Embedder
	index     ports.VectorIndex
	logger    *slog.Logger
}

func NewProcessDocumentUseCase(sources ports.SourceRepository, extractor ports.TextExtractor, enricher ports.MetadataEnricher, chunker ports.Chunker, embedder ports.Embedder, index ports.VectorIndex, logger *slog.Logger) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		sources:   sources,
		extractor: extractor,
		enricher:  enricher,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		logger:    logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	src, err := uc.sources.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load source %s: %w", documentID, err)
	}

	if err := uc.sources.UpdateStatus(ctx, src.ID, domain.SourceProcessing, ""); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	if err := uc.process(ctx, src); err != nil {
		if updErr := uc.sources.UpdateStatus(ctx, src.ID, domain.SourceFailed, err.Error()); updErr != nil {
			uc.logger.Error("mark failed", "document_id", src.ID, "error", updErr)
		}
		return err
	}

	if err := uc.sources.UpdateStatus(ctx, src.ID, domain.SourceReady, ""); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	uc.logger.Info("document processed", "document_id", src.ID, "filename", src.Filename)
	return nil
}

func (uc *ProcessDocumentUseCase) process(ctx context.Context, src *domain.SourceDocument) error {
	fragments, err := uc.extractor.Extract(ctx, src)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	if len(fragments) == 0 {
		return fmt.Errorf("%w: no extractable text", domain.ErrInvalidInput)
	}

	src.Metadata = uc.enrich(ctx, src, fragments)
	if err := uc.sources.SaveMetadata(ctx, src.ID, src.Metadata); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}

	chunks := fragments
	if len(fragments) == 1 {
		chunks = uc.chunker.Split(fragments[0])
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks produced", domain.ErrInvalidInput)
	}

	vectors, err := uc.embedder.Embed(ctx, chunks)
	if err != nil {
		return domain.WrapError(domain.ErrTemporary, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	if err := uc.index.IndexChunks(ctx, src, chunks, vectors); err != nil {
		return domain.WrapError(domain.ErrTemporary, "index chunks", err)
	}
	return nil
}

// enrich asks the LLM for structured attributes, falling back to minimal
// filename-derived metadata when enrichment fails. A failed enrichment must
// not block indexing; the document stays searchable by content.
func (uc *ProcessDocumentUseCase) enrich(ctx context.Context, src *domain.SourceDocument, fragments []string) domain.Metadata {
	sample := strings.Join(fragments, "\n")
	if len(sample) > enrichSampleLimit {
		sample = sample[:enrichSampleLimit]
	}

	meta, err := uc.enricher.Enrich(ctx, src.Filename, sample)
	if err != nil {
		uc.logger.Warn("metadata enrichment failed, using fallback", "document_id", src.ID, "error", err)
		return fallbackMetadata(src.Filename)
	}
	meta.Filename = src.Filename
	return meta
}

func fallbackMetadata(filename string) domain.Metadata {
	meta := domain.Metadata{Filename: filename}
	lowered := strings.ToLower(filename)
	switch {
	case strings.Contains(lowered, "course"):
		meta.DocumentType = "academic"
	case strings.Contains(lowered, "internship"):
		meta.DocumentType = "internship"
	case strings.Contains(lowered, "research"):
		meta.DocumentType = "research"
	case strings.Contains(lowered, "resume") || strings.Contains(lowered, "cv"):
		meta.DocumentType = "resume"
	default:
		meta.DocumentType = "document"
	}
	return meta
}
