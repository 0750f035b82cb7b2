package usecase

import (
	"context"
	"log/slog"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
)

// Retrieval stage names, in pipeline order.
const (
	stageMetadata = "metadata"
	stageSemantic = "semantic"
	stageRouting  = "routing"
	stageNone     = "none"
)

// RetrieveContextUseCase runs the staged retrieval pipeline: metadata
// scoring over a full corpus scan, then semantic search gated by a literal
// relevance check, then topic routing with a widened-semantic fallback.
// Whatever stage produced the set, query-named organizations are backfilled
// before the caller's limit is applied.
//
// GetContext never fails: any stage error is logged and the pipeline falls
// through to the next stage, degrading to an empty slice at worst.
type RetrieveContextUseCase struct {
	index    ports.VectorIndex
	embedder ports.Embedder
	observer ports.RetrievalObserver
	logger   *slog.Logger

	defaultLimit int
}

func NewRetrieveContextUseCase(index ports.VectorIndex, embedder ports.Embedder, observer ports.RetrievalObserver, logger *slog.Logger, defaultLimit int) *RetrieveContextUseCase {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &RetrieveContextUseCase{
		index:        index,
		embedder:     embedder,
		observer:     observer,
		logger:       logger,
		defaultLimit: defaultLimit,
	}
}

func (uc *RetrieveContextUseCase) GetContext(ctx context.Context, query string, limit int) []domain.ScoredResult {
	q := domain.ParseQuery(query)

	requested := limit
	if requested <= 0 {
		requested = uc.defaultLimit
	}
	// Course queries fetch a wide internal set so that several course rows
	// survive ranking; the caller's cap is applied on the way out.
	fetch := effectiveLimit(q, requested)

	results, stage := uc.retrieve(ctx, q, fetch)
	results = uc.ensureCoverage(ctx, q, results, fetch)

	if len(results) > requested {
		results = results[:requested]
	}

	uc.logger.Debug("context retrieved",
		"stage", stage,
		"results", len(results),
		"requested", requested,
		"fetched", fetch,
	)
	if uc.observer != nil {
		uc.observer.StageServed(stage, len(results))
	}
	return results
}

func (uc *RetrieveContextUseCase) retrieve(ctx context.Context, q domain.ParsedQuery, fetch int) ([]domain.ScoredResult, string) {
	if results := uc.metadataScan(ctx, q, fetch); len(results) > 0 {
		return results, stageMetadata
	}

	if results := uc.semanticSearch(ctx, q, fetch); len(results) > 0 {
		if resultsAreRelevant(q, results) {
			return results, stageSemantic
		}
		uc.logger.Debug("semantic results rejected as irrelevant", "results", len(results))
	}

	if results := uc.route(ctx, q, fetch); len(results) > 0 {
		return results, stageRouting
	}
	return nil, stageNone
}

func (uc *RetrieveContextUseCase) metadataScan(ctx context.Context, q domain.ParsedQuery, fetch int) []domain.ScoredResult {
	docs, err := uc.index.ListAll(ctx)
	if err != nil {
		uc.logger.Warn("metadata scan enumeration failed", "error", err)
		if uc.observer != nil {
			uc.observer.StageError(stageMetadata)
		}
		return nil
	}
	return rankByMetadata(q, docs, fetch)
}

func (uc *RetrieveContextUseCase) semanticSearch(ctx context.Context, q domain.ParsedQuery, fetch int) []domain.ScoredResult {
	vector, err := uc.embedder.EmbedQuery(ctx, q.Raw)
	if err != nil {
		uc.logger.Warn("query embedding failed", "error", err)
		if uc.observer != nil {
			uc.observer.StageError(stageSemantic)
		}
		return nil
	}
	results, err := uc.index.Search(ctx, vector, fetch)
	if err != nil {
		uc.logger.Warn("semantic search failed", "error", err)
		if uc.observer != nil {
			uc.observer.StageError(stageSemantic)
		}
		return nil
	}
	return results
}
