package usecase

import (
	"context"
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// ensureCoverage guarantees that every organization the query names is
// represented in the result set. For each missing organization, the single
// best document by impact+complexity is appended, capacity permitting.
func (uc *RetrieveContextUseCase) ensureCoverage(ctx context.Context, q domain.ParsedQuery, results []domain.ScoredResult, limit int) []domain.ScoredResult {
	if len(q.Organizations) == 0 {
		return results
	}

	missing := missingOrganizations(q, results)
	if len(missing) == 0 || len(results) >= limit {
		return results
	}

	docs, err := uc.index.ListAll(ctx)
	if err != nil {
		uc.logger.Warn("coverage enumeration failed", "error", err)
		return results
	}

	appended := 0
	for _, org := range missing {
		if len(results) >= limit {
			break
		}
		best, ok := bestDocumentFor(org, docs)
		if !ok {
			continue
		}
		score := best.Metadata.ImpactScore + best.Metadata.ComplexityScore
		results = append(results, domain.ScoredResult{
			Content:  best.Content,
			Metadata: best.Metadata,
			Score:    score,
			Distance: domain.DistanceFromScore(score),
		})
		appended++
	}
	if appended > 0 && uc.observer != nil {
		uc.observer.CoverageAppended(appended)
	}
	return results
}

func missingOrganizations(q domain.ParsedQuery, results []domain.ScoredResult) []string {
	missing := make([]string, 0, len(q.Organizations))
	for _, org := range q.Organizations {
		if !organizationRepresented(org, results) {
			missing = append(missing, org)
		}
	}
	return missing
}

func organizationRepresented(org string, results []domain.ScoredResult) bool {
	for _, r := range results {
		if documentMatchesOrganization(org, r.Metadata, r.Content) {
			return true
		}
	}
	return false
}

func documentMatchesOrganization(org string, meta domain.Metadata, content string) bool {
	if strings.Contains(strings.ToLower(meta.Organization), org) {
		return true
	}
	for _, named := range domain.SplitList(meta.Organizations) {
		if strings.Contains(strings.ToLower(named), org) {
			return true
		}
	}
	return orgContentMatch(strings.ToLower(content), org)
}

// bestDocumentFor picks the organization's strongest document, preferring a
// higher impact+complexity sum and breaking ties by filename so repeated
// queries surface the same representative.
func bestDocumentFor(org string, docs []domain.Document) (domain.Document, bool) {
	var best domain.Document
	bestScore := -1.0
	found := false
	for _, doc := range docs {
		if !documentMatchesOrganization(org, doc.Metadata, doc.Content) {
			continue
		}
		score := doc.Metadata.ImpactScore + doc.Metadata.ComplexityScore
		if !found || score > bestScore ||
			(score == bestScore && doc.Metadata.Filename < best.Metadata.Filename) {
			best = doc
			bestScore = score
			found = true
		}
	}
	return best, found
}
