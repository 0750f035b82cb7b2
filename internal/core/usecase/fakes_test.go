package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeIndex struct {
	docs          []domain.Document
	searchResults []domain.ScoredResult

	listErr   error
	searchErr error
	indexErr  error

	listCalls   int
	searchCalls int
	lastLimit   int

	indexedChunks []string
}

func (f *fakeIndex) ListAll(ctx context.Context) ([]domain.Document, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs, nil
}

func (f *fakeIndex) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredResult, error) {
	f.searchCalls++
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.searchResults) > limit {
		return f.searchResults[:limit], nil
	}
	return f.searchResults, nil
}

func (f *fakeIndex) IndexChunks(ctx context.Context, src *domain.SourceDocument, chunks []string, vectors [][]float32) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	f.indexedChunks = append(f.indexedChunks, chunks...)
	return nil
}

type fakeEmbedder struct {
	embedErr error
	queryErr error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeObserver struct {
	mu       sync.Mutex
	served   map[string]int
	errors   map[string]int
	appended int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{served: make(map[string]int), errors: make(map[string]int)}
}

func (f *fakeObserver) StageServed(stage string, results int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.served[stage]++
}

func (f *fakeObserver) StageError(stage string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[stage]++
}

func (f *fakeObserver) CoverageAppended(count int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended += count
}

type fakeGenerator struct {
	answer string
	err    error

	prompts []string
}

func (f *fakeGenerator) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeGenerator) GenerateJSONFromPrompt(ctx context.Context, prompt string) (string, error) {
	return f.GenerateFromPrompt(ctx, prompt)
}

type fakeConversationStore struct {
	messages []domain.ConversationMessage

	appendErr error
	listErr   error

	trimmedTo int
	cleared   []string
}

func (f *fakeConversationStore) AppendMessage(ctx context.Context, msg domain.ConversationMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeConversationStore) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ConversationMessage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.ConversationMessage
	for _, m := range f.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeConversationStore) TrimHistory(ctx context.Context, sessionID string, keep int) error {
	f.trimmedTo = keep
	return nil
}

func (f *fakeConversationStore) Clear(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakeRetriever struct {
	results []domain.ScoredResult
}

func (f *fakeRetriever) GetContext(ctx context.Context, query string, limit int) []domain.ScoredResult {
	return f.results
}

type fakeSourceRepo struct {
	byID map[string]*domain.SourceDocument

	created  []*domain.SourceDocument
	statuses []domain.SourceStatus
	lastErr  string
	saved    *domain.Metadata

	createErr error
	getErr    error
}

func (f *fakeSourceRepo) Create(ctx context.Context, src *domain.SourceDocument) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, src)
	return nil
}

func (f *fakeSourceRepo) GetByID(ctx context.Context, id string) (*domain.SourceDocument, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	src, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return src, nil
}

func (f *fakeSourceRepo) UpdateStatus(ctx context.Context, id string, status domain.SourceStatus, errMessage string) error {
	f.statuses = append(f.statuses, status)
	f.lastErr = errMessage
	return nil
}

func (f *fakeSourceRepo) SaveMetadata(ctx context.Context, id string, meta domain.Metadata) error {
	f.saved = &meta
	return nil
}

type fakeStorage struct {
	saved   map[string][]byte
	saveErr error
}

func (f *fakeStorage) Save(ctx context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[key] = b
	return nil
}

func (f *fakeStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.saved[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type fakeQueue struct {
	published  []string
	publishErr error
}

func (f *fakeQueue) PublishDocumentIngested(ctx context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *fakeQueue) SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error {
	return nil
}

type fakeExtractor struct {
	fragments []string
	err       error
}

func (f *fakeExtractor) Extract(ctx context.Context, src *domain.SourceDocument) ([]string, error) {
	return f.fragments, f.err
}

type fakeEnricher struct {
	meta domain.Metadata
	err  error

	sample string
}

func (f *fakeEnricher) Enrich(ctx context.Context, filename, text string) (domain.Metadata, error) {
	f.sample = text
	return f.meta, f.err
}

type fakeChunker struct {
	chunks []string
	calls  int
}

func (f *fakeChunker) Split(text string) []string {
	f.calls++
	if f.chunks != nil {
		return f.chunks
	}
	return []string{text}
}
