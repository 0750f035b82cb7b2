package usecase

import (
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// resultsAreRelevant decides whether a semantic result set actually answers
// the query. Vector similarity alone drifts on short profile documents, so
// topical queries require filename or content co-occurrence, and generic
// queries require at least two literal query-word hits in a single result.
func resultsAreRelevant(q domain.ParsedQuery, results []domain.ScoredResult) bool {
	for _, r := range results {
		filename := strings.ToLower(r.Metadata.Filename)
		content := strings.ToLower(r.Content)

		if strings.Contains(q.Lowered, "research") {
			if strings.Contains(filename, "research tracker") ||
				strings.Contains(filename, "iisc") ||
				strings.Contains(content, "research") {
				return true
			}
		}
		if strings.Contains(q.Lowered, "internship") {
			if strings.Contains(filename, "internship") ||
				strings.Contains(filename, "abb") ||
				strings.Contains(content, "netradyne") {
				return true
			}
		}
		if strings.Contains(q.Lowered, "ashwa") || strings.Contains(q.Lowered, "racing") {
			if strings.Contains(filename, "ashwa") {
				return true
			}
		}
		if q.WordHits(content) >= 2 {
			return true
		}
	}
	return false
}
