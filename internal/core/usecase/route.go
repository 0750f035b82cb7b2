package usecase

import (
	"context"
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// routeRule maps a query topic to an ordered chain of filename filters.
// The first filter that yields candidates wins; a matched rule terminates
// routing even when its whole chain comes up empty.
type routeRule struct {
	name       string
	matches    func(q domain.ParsedQuery) bool
	filenames  func(q domain.ParsedQuery) []string
	minResults int
}

var routeRules = []routeRule{
	{
		name:    "research",
		matches: func(q domain.ParsedQuery) bool { return q.ResearchTopic },
		filenames: func(q domain.ParsedQuery) []string {
			if q.Mentions("iisc") || strings.Contains(q.Lowered, "bangalore") {
				return []string{"IISC"}
			}
			if strings.Contains(q.Lowered, "tracker") || q.WantsCurrent || q.MentionsSAM2 {
				return []string{"Research Tracker"}
			}
			return []string{"IISC", "Research Tracker"}
		},
	},
	{
		name:    "internship",
		matches: func(q domain.ParsedQuery) bool { return q.InternshipTopic },
		filenames: func(q domain.ParsedQuery) []string {
			if q.Mentions("netradyne") {
				return []string{"Internship Report"}
			}
			if q.Mentions("abb") {
				return []string{"ABB internship"}
			}
			return []string{"internship", "ABB"}
		},
	},
	{
		name:       "academic",
		matches:    func(q domain.ParsedQuery) bool { return q.CourseRelated },
		filenames:  func(domain.ParsedQuery) []string { return []string{"courses"} },
		minResults: courseMinResults,
	},
	{
		name:      "racing",
		matches:   func(q domain.ParsedQuery) bool { return q.RacingTopic },
		filenames: func(domain.ParsedQuery) []string { return []string{"ASHWA"} },
	},
}

// Content markers that identify a usable course row even when the query
// barely overlaps it.
var courseRowSignals = []string{"completed", "grade", "csci", "cs231n", "assignment", "project"}

// route is the fallback stage: when neither metadata scoring nor semantic
// search produced an adequate set, dispatch to a topic-specific document
// subset by filename. With no matching rule it widens semantic search and,
// as a last resort, returns an unranked slice of the full enumeration.
func (uc *RetrieveContextUseCase) route(ctx context.Context, q domain.ParsedQuery, limit int) []domain.ScoredResult {
	for _, rule := range routeRules {
		if !rule.matches(q) {
			continue
		}
		ruleLimit := limit
		if rule.minResults > ruleLimit {
			ruleLimit = rule.minResults
		}
		for _, pattern := range rule.filenames(q) {
			if results := uc.searchInFilenames(ctx, q, pattern, ruleLimit); len(results) > 0 {
				return results
			}
		}
		return nil
	}

	if results := uc.semanticSearch(ctx, q, limit*2); len(results) > 0 {
		if len(results) > limit {
			results = results[:limit]
		}
		return results
	}

	// Degenerate last resort, explicitly not relevance-ranked.
	docs, err := uc.index.ListAll(ctx)
	if err != nil {
		uc.logger.Warn("routing full enumeration failed", "error", err)
		return nil
	}
	out := make([]domain.ScoredResult, 0, limit)
	for _, doc := range docs {
		if len(out) == limit {
			break
		}
		out = append(out, domain.ScoredResult{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Distance: domain.DistanceFromScore(0),
		})
	}
	return out
}

// searchInFilenames restricts the corpus to documents whose filename
// contains pattern, then ranks the subset by literal query-word overlap.
func (uc *RetrieveContextUseCase) searchInFilenames(ctx context.Context, q domain.ParsedQuery, pattern string, limit int) []domain.ScoredResult {
	docs, err := uc.index.ListAll(ctx)
	if err != nil {
		uc.logger.Warn("routing enumeration failed", "pattern", pattern, "error", err)
		return nil
	}

	patternLower := strings.ToLower(pattern)
	courseFilter := strings.Contains(patternLower, "courses")

	scored := make([]domain.ScoredResult, 0, limit)
	for _, doc := range docs {
		if !strings.Contains(strings.ToLower(doc.Metadata.Filename), patternLower) {
			continue
		}
		content := strings.ToLower(doc.Content)
		relevance := q.WordHits(content)
		if courseFilter {
			if containsAnySignal(content, courseRowSignals) {
				relevance += 3
			}
			// Course rows surface even with no literal match so that several
			// courses are returned together instead of an empty set.
			if relevance == 0 {
				relevance = 1
			}
		}
		if relevance == 0 {
			continue
		}
		score := float64(relevance)
		scored = append(scored, domain.ScoredResult{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Score:    score,
			Distance: domain.DistanceFromScore(score),
		})
	}

	sortScored(scored)

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func containsAnySignal(content string, signals []string) bool {
	for _, s := range signals {
		if strings.Contains(content, s) {
			return true
		}
	}
	return false
}
