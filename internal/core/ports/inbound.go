package ports

import (
	"context"
	"io"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// ContextProvider is the inbound contract for context retrieval. It never
// returns an error: every internal failure degrades to a smaller (possibly
// empty) result set.
type ContextProvider interface {
	GetContext(ctx context.Context, query string, limit int) []domain.ScoredResult
}

// ChatService is the inbound contract for session-scoped chat turns.
type ChatService interface {
	Respond(ctx context.Context, sessionID, message string) (*domain.ChatReply, error)
	ClearSession(ctx context.Context, sessionID string) error
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.SourceDocument, error)
}

// DocumentProcessor is the inbound contract for asynchronous processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// StatsProvider reports corpus-level statistics.
type StatsProvider interface {
	Stats(ctx context.Context) (*domain.KnowledgeStats, error)
}
