package ports

import (
	"context"
	"io"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// VectorIndex stores indexed knowledge fragments and performs semantic
// search. ListAll is the full enumeration used by the metadata-scoring and
// coverage stages; it reads the corpus fresh on every call.
type VectorIndex interface {
	IndexChunks(ctx context.Context, src *domain.SourceDocument, chunks []string, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredResult, error)
	ListAll(ctx context.Context) ([]domain.Document, error)
}

// Embedder builds vectors for fragment and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// AnswerGenerator is the opaque text-generation service.
type AnswerGenerator interface {
	GenerateFromPrompt(ctx context.Context, prompt string) (string, error)
	GenerateJSONFromPrompt(ctx context.Context, prompt string) (string, error)
}

// MetadataEnricher derives structured metadata from extracted document text.
type MetadataEnricher interface {
	Enrich(ctx context.Context, filename, text string) (domain.Metadata, error)
}

// SourceRepository persists and reads ingestion state for uploaded files.
type SourceRepository interface {
	Create(ctx context.Context, src *domain.SourceDocument) error
	GetByID(ctx context.Context, id string) (*domain.SourceDocument, error)
	UpdateStatus(ctx context.Context, id string, status domain.SourceStatus, errMessage string) error
	SaveMetadata(ctx context.Context, id string, meta domain.Metadata) error
}

// ObjectStorage stores uploaded source files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts indexable text fragments from a stored file.
// Most formats yield a single fragment that is chunked downstream;
// row-oriented formats (course spreadsheets) yield one fragment per row.
type TextExtractor interface {
	Extract(ctx context.Context, src *domain.SourceDocument) ([]string, error)
}

// Chunker splits text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}

// ConversationStore persists chat history keyed by session id.
type ConversationStore interface {
	AppendMessage(ctx context.Context, msg domain.ConversationMessage) error
	ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ConversationMessage, error)
	TrimHistory(ctx context.Context, sessionID string, keep int) error
	Clear(ctx context.Context, sessionID string) error
}

// RetrievalObserver receives retrieval pipeline events for observability.
// Implementations must be safe for concurrent use.
type RetrievalObserver interface {
	StageServed(stage string, results int)
	StageError(stage string)
	CoverageAppended(count int)
}
