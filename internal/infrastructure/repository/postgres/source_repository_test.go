package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func newSourceRepoWithMock(t *testing.T) (*SourceRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &SourceRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestSourceGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newSourceRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSourceGetByIDDecodesMetadata(t *testing.T) {
	repo, mock, done := newSourceRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "metadata", "status", "error_message", "created_at", "updated_at",
	}).AddRow(
		"src-1", "report.pdf", "application/pdf", "src-1/report.pdf",
		[]byte(`{"organization":"Netradyne","document_type":"internship"}`),
		"ready", "", now, now,
	)
	mock.ExpectQuery("SELECT id, filename, mime_type, storage_path").
		WithArgs("src-1").
		WillReturnRows(rows)

	src, err := repo.GetByID(context.Background(), "src-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if src.Status != domain.SourceReady {
		t.Fatalf("status = %s", src.Status)
	}
	if src.Metadata.Organization != "Netradyne" || src.Metadata.DocumentType != "internship" {
		t.Fatalf("metadata = %+v", src.Metadata)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSourceUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newSourceRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE source_documents").
		WithArgs("missing", string(domain.SourceProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.SourceProcessing, "")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSourceCreateInsertsRow(t *testing.T) {
	repo, mock, done := newSourceRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	src := &domain.SourceDocument{
		ID:          "src-1",
		Filename:    "courses.xlsx",
		MimeType:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		StoragePath: "src-1/courses.xlsx",
		Status:      domain.SourceUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO source_documents").
		WithArgs(src.ID, src.Filename, src.MimeType, src.StoragePath, sqlmock.AnyArg(), string(src.Status), "", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), src); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
