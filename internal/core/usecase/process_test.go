package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func processFixture(repo *fakeSourceRepo, extractor *fakeExtractor, enricher *fakeEnricher, chunker *fakeChunker, index *fakeIndex) *ProcessDocumentUseCase {
	return NewProcessDocumentUseCase(repo, extractor, enricher, chunker, &fakeEmbedder{}, index, testLogger())
}

func sourceFixture() *domain.SourceDocument {
	return &domain.SourceDocument{
		ID:       "doc-1",
		Filename: "report.txt",
		Status:   domain.SourceUploaded,
	}
}

func TestProcessSingleFragmentIsChunked(t *testing.T) {
	repo := &fakeSourceRepo{byID: map[string]*domain.SourceDocument{"doc-1": sourceFixture()}}
	chunker := &fakeChunker{chunks: []string{"part one", "part two"}}
	index := &fakeIndex{}
	enricher := &fakeEnricher{meta: domain.Metadata{DocumentType: "internship", Organization: "ABB"}}
	uc := processFixture(repo, &fakeExtractor{fragments: []string{"full text"}}, enricher, chunker, index)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if chunker.calls != 1 {
		t.Fatalf("chunker calls = %d, want 1", chunker.calls)
	}
	if len(index.indexedChunks) != 2 {
		t.Fatalf("indexed = %d chunks, want 2", len(index.indexedChunks))
	}
	if repo.saved == nil || repo.saved.Organization != "ABB" {
		t.Fatalf("metadata not saved: %+v", repo.saved)
	}
	if repo.saved.Filename != "report.txt" {
		t.Fatalf("filename not stamped: %q", repo.saved.Filename)
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.SourceReady {
		t.Fatalf("final status = %s, want ready", last)
	}
}

func TestProcessRowFragmentsSkipChunker(t *testing.T) {
	repo := &fakeSourceRepo{byID: map[string]*domain.SourceDocument{"doc-1": sourceFixture()}}
	chunker := &fakeChunker{}
	index := &fakeIndex{}
	uc := processFixture(repo, &fakeExtractor{fragments: []string{"row 1", "row 2", "row 3"}}, &fakeEnricher{}, chunker, index)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if chunker.calls != 0 {
		t.Fatalf("chunker ran on row fragments")
	}
	if len(index.indexedChunks) != 3 {
		t.Fatalf("indexed = %d chunks, want 3", len(index.indexedChunks))
	}
}

func TestProcessEnrichmentFailureUsesFallback(t *testing.T) {
	src := sourceFixture()
	src.Filename = "ABB internship.pdf"
	repo := &fakeSourceRepo{byID: map[string]*domain.SourceDocument{"doc-1": src}}
	enricher := &fakeEnricher{err: errors.New("llm down")}
	uc := processFixture(repo, &fakeExtractor{fragments: []string{"text"}}, enricher, &fakeChunker{}, &fakeIndex{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("process: %v", err)
	}
	if repo.saved == nil || repo.saved.DocumentType != "internship" {
		t.Fatalf("fallback metadata = %+v", repo.saved)
	}
}

func TestProcessFallbackCourseFilesGetAcademicType(t *testing.T) {
	src := sourceFixture()
	src.Filename = "courses.xlsx"
	repo := &fakeSourceRepo{byID: map[string]*domain.SourceDocument{"doc-1": src}}
	enricher := &fakeEnricher{err: errors.New("llm down")}
	uc := processFixture(repo, &fakeExtractor{fragments: []string{"CS101 Completed Grade A"}}, enricher, &fakeChunker{}, &fakeIndex{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("process: %v", err)
	}
	// The scorer's dominant course boost keys on the "academic" type.
	if repo.saved == nil || repo.saved.DocumentType != "academic" {
		t.Fatalf("fallback metadata = %+v, want academic document type", repo.saved)
	}
}

func TestProcessExtractFailureMarksFailed(t *testing.T) {
	repo := &fakeSourceRepo{byID: map[string]*domain.SourceDocument{"doc-1": sourceFixture()}}
	uc := processFixture(repo, &fakeExtractor{err: errors.New("corrupt file")}, &fakeEnricher{}, &fakeChunker{}, &fakeIndex{})

	if err := uc.ProcessByID(context.Background(), "doc-1"); err == nil {
		t.Fatalf("expected error")
	}
	last := repo.statuses[len(repo.statuses)-1]
	if last != domain.SourceFailed {
		t.Fatalf("final status = %s, want failed", last)
	}
	if repo.lastErr == "" {
		t.Fatalf("failure reason not recorded")
	}
}

func TestProcessUnknownDocument(t *testing.T) {
	repo := &fakeSourceRepo{byID: map[string]*domain.SourceDocument{}}
	uc := processFixture(repo, &fakeExtractor{}, &fakeEnricher{}, &fakeChunker{}, &fakeIndex{})

	if err := uc.ProcessByID(context.Background(), "missing"); !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
