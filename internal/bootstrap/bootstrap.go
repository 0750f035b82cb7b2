package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sshenoy/profile-assistant/internal/config"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
	"github.com/sshenoy/profile-assistant/internal/core/usecase"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/chunking"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/extractor"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/extractor/pdfdoc"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/extractor/plaintext"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/extractor/xlsx"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/llm/gemini"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/queue/nats"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/repository/postgres"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/resilience"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/storage/localfs"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/vector/qdrant"
	"github.com/sshenoy/profile-assistant/internal/observability/metrics"
)

// App wires every adapter behind the inbound ports. The API and the worker
// binaries share the same construction path and differ only in which ports
// they pull from the built App.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue   ports.MessageQueue
	Sources ports.SourceRepository

	RetrieveUC ports.ContextProvider
	ChatUC     ports.ChatService
	IngestUC   ports.DocumentIngestor
	ProcessUC  ports.DocumentProcessor
	StatsUC    ports.StatsProvider

	ServerMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sources := postgres.NewSourceRepository(db)
	if err := sources.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	conversations := postgres.NewConversationRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	geminiClient, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiGenModel, cfg.GeminiEmbedModel)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	llm := gemini.NewResilientClient(geminiClient, executor)

	vectorIndex := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	extract := extractor.NewDispatcher(
		plaintext.NewExtractor(storage),
		pdfdoc.NewExtractor(storage),
		xlsx.NewExtractor(storage),
	)

	serverMetrics := metrics.NewHTTPServerMetrics("api")
	retrievalMetrics := metrics.NewRetrievalMetrics(serverMetrics.Registry(), "api")

	retrieveUC := usecase.NewRetrieveContextUseCase(vectorIndex, llm, retrievalMetrics, logger, cfg.RetrievalTopK)
	chatUC := usecase.NewChatUseCase(retrieveUC, llm, conversations, logger,
		cfg.OwnerName, cfg.RetrievalTopK, cfg.HistoryPromptWindow, cfg.HistoryMaxMessages)
	ingestUC := usecase.NewIngestDocumentUseCase(sources, storage, queue, logger)
	processUC := usecase.NewProcessDocumentUseCase(sources, extract, llm, chunker, llm, vectorIndex, logger)
	statsUC := usecase.NewStatsUseCase(vectorIndex)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:   queue,
		Sources: sources,

		RetrieveUC: retrieveUC,
		ChatUC:     chatUC,
		IngestUC:   ingestUC,
		ProcessUC:  processUC,
		StatsUC:    statsUC,

		ServerMetrics: serverMetrics,

		closeFn: func() {
			queue.Close()
			_ = geminiClient.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
