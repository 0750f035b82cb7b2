package usecase

import (
	"context"
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
)

// StatsUseCase summarizes the indexed corpus from a full enumeration.
type StatsUseCase struct {
	index ports.VectorIndex
}

func NewStatsUseCase(index ports.VectorIndex) *StatsUseCase {
	return &StatsUseCase{index: index}
}

func (uc *StatsUseCase) Stats(ctx context.Context) (*domain.KnowledgeStats, error) {
	docs, err := uc.index.ListAll(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "enumerate corpus", err)
	}

	stats := &domain.KnowledgeStats{
		TotalDocuments: len(docs),
		DocumentTypes:  make(map[string]int),
	}
	files := make(map[string]struct{})
	for _, doc := range docs {
		stats.TotalWords += len(strings.Fields(doc.Content))
		docType := doc.Metadata.DocumentType
		if docType == "" {
			docType = "unknown"
		}
		stats.DocumentTypes[docType]++
		if doc.Metadata.Filename != "" {
			files[doc.Metadata.Filename] = struct{}{}
		}
	}
	stats.UniqueFiles = len(files)
	return stats, nil
}
