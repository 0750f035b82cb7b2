package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func TestUploadStoresRecordsAndEnqueues(t *testing.T) {
	repo := &fakeSourceRepo{}
	storage := &fakeStorage{}
	queue := &fakeQueue{}
	uc := NewIngestDocumentUseCase(repo, storage, queue, testLogger())

	src, err := uc.Upload(context.Background(), "resume.pdf", "application/pdf", strings.NewReader("raw bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if src.ID == "" || src.Status != domain.SourceUploaded {
		t.Fatalf("source = %+v", src)
	}
	if string(storage.saved[src.StoragePath]) != "raw bytes" {
		t.Fatalf("stored bytes missing for %q", src.StoragePath)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created = %d, want 1", len(repo.created))
	}
	if len(queue.published) != 1 || queue.published[0] != src.ID {
		t.Fatalf("published = %v", queue.published)
	}
}

func TestUploadStripsDirectoryComponents(t *testing.T) {
	uc := NewIngestDocumentUseCase(&fakeSourceRepo{}, &fakeStorage{}, &fakeQueue{}, testLogger())

	src, err := uc.Upload(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if src.Filename != "passwd" {
		t.Fatalf("filename = %q", src.Filename)
	}
}

func TestUploadRejectsEmptyFilename(t *testing.T) {
	uc := NewIngestDocumentUseCase(&fakeSourceRepo{}, &fakeStorage{}, &fakeQueue{}, testLogger())

	if _, err := uc.Upload(context.Background(), "  ", "text/plain", strings.NewReader("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestUploadPropagatesQueueFailure(t *testing.T) {
	queue := &fakeQueue{publishErr: errors.New("nats down")}
	uc := NewIngestDocumentUseCase(&fakeSourceRepo{}, &fakeStorage{}, queue, testLogger())

	if _, err := uc.Upload(context.Background(), "a.txt", "text/plain", strings.NewReader("x")); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("err = %v, want temporary", err)
	}
}
