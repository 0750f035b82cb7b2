package usecase

import (
	"sort"
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// Scoring weights. The absolute values are tunable but their relative order
// is load-bearing: organization disambiguation dominates generic field
// overlap, and course queries must outrank unrelated org matches, which is
// why the academic boost is the single largest weight.
const (
	weightTypeMatch      = 5.0
	weightResearchType   = 4.0
	weightCurrentExp     = 3.0
	weightSAM2Research   = 6.0
	weightCourseAcademic = 12.0

	weightSemanticTags = 2.5
	weightSkillDomains = 2.0
	weightTechnologies = 1.5
	weightLocations    = 2.0
	weightKeywords     = 1.0

	weightOrgOverlap      = 4.0
	weightIISCOrgEntry    = 6.0
	weightNamedOrgField   = 6.0
	weightNamedOrgContent = 5.0

	weightStartRecent  = 3.0
	weightStart2023    = 1.5
	weightEndPast      = 2.0
	weightInternRole   = 4.0
	weightResearchRole = 3.0

	weightImpactBlend = 0.2
	weightContentWord = 0.5

	weightSAM2Content   = 8.0
	weightCourseContent = 3.0
)

// courseMinResults is the minimum effective fetch size for course-related
// queries. Academic content is fragmented across many short rows; fetching
// fewer silently drops whole courses.
const courseMinResults = 15

// scoreDocument computes the metadata relevance of one document for a parsed
// query. Pure and deterministic; always >= 0.
func scoreDocument(q domain.ParsedQuery, doc domain.Document) float64 {
	meta := doc.Metadata
	content := strings.ToLower(doc.Content)
	score := 0.0

	// Document type, the highest-priority structured signal.
	docType := strings.ToLower(meta.DocumentType)
	if docType != "" {
		if q.AnyWordIn(docType) {
			score += weightTypeMatch
		}
		if strings.Contains(q.Lowered, "research") && docType == "research" {
			score += weightResearchType
		}
		if strings.Contains(q.Lowered, "current") && meta.ExperienceType == "current" {
			score += weightCurrentExp
		}
		if q.MentionsSAM2 && docType == "research" {
			score += weightSAM2Research
		}
		if q.CourseRelated && docType == "academic" {
			score += weightCourseAcademic
		}
	}

	// Comma-joined descriptor lists. Each field contributes at most once no
	// matter how many of its entries overlap the query.
	score += listOverlap(q, meta.SemanticTags, weightSemanticTags)
	score += listOverlap(q, meta.SkillDomains, weightSkillDomains)
	score += listOverlap(q, meta.Technologies, weightTechnologies)
	score += listOverlap(q, meta.Locations, weightLocations)
	score += listOverlap(q, meta.RelevanceKeywords, weightKeywords)

	score += scoreOrganizations(q, meta, content)

	// Temporal alignment between the query and the experience timeline.
	if q.WantsCurrent {
		start := meta.Timeline.Start
		switch {
		case strings.Contains(start, "2024") || strings.Contains(start, "2025"):
			score += weightStartRecent
		case strings.Contains(start, "2023"):
			score += weightStart2023
		}
	}
	if q.WantsPast {
		end := meta.Timeline.End
		if strings.Contains(end, "2023") || strings.Contains(end, "2022") {
			score += weightEndPast
		}
	}

	role := strings.ToLower(meta.Role)
	if role != "" && role != "n/a" {
		if strings.Contains(q.Lowered, "intern") && strings.Contains(role, "intern") {
			score += weightInternRole
		}
		if strings.Contains(q.Lowered, "research") && roleIsResearch(role) {
			score += weightResearchRole
		}
	}

	score += weightImpactBlend * (meta.ComplexityScore + meta.ImpactScore)

	// Literal content overlap guards against incomplete metadata enrichment.
	score += weightContentWord * float64(q.WordHits(content))

	if q.MentionsSAM2 && strings.Contains(content, "sam2") {
		score += weightSAM2Content
	}
	if q.CourseRelated && strings.Contains(content, "course") {
		score += weightCourseContent
	}

	return score
}

func scoreOrganizations(q domain.ParsedQuery, meta domain.Metadata, content string) float64 {
	score := 0.0

	for _, org := range domain.SplitList(meta.Organizations) {
		orgLower := strings.ToLower(org)
		if strings.Contains(q.Lowered, orgLower) {
			score += weightOrgOverlap
		}
		if q.Mentions("iisc") && strings.Contains(orgLower, "iisc") {
			score += weightIISCOrgEntry
		}
	}

	orgField := strings.ToLower(meta.Organization)
	for _, name := range q.Organizations {
		switch {
		case orgField != "" && strings.Contains(orgField, name):
			score += weightNamedOrgField
		case orgContentMatch(content, name):
			// Metadata enrichment is not guaranteed complete; fall back to
			// the raw content.
			score += weightNamedOrgContent
		}
	}
	return score
}

func orgContentMatch(content, org string) bool {
	if strings.Contains(content, org) {
		return true
	}
	if org == "iisc" {
		return strings.Contains(content, "indian institute of science")
	}
	return false
}

func roleIsResearch(role string) bool {
	return strings.Contains(role, "research") || strings.Contains(role, "contributor")
}

func listOverlap(q domain.ParsedQuery, field string, weight float64) float64 {
	for _, entry := range domain.SplitList(field) {
		if q.AnyWordIn(strings.ToLower(entry)) {
			return weight
		}
	}
	return 0
}

// rankByMetadata scores every document, drops zero-score candidates, and
// returns the top results in deterministic order: score descending, ties
// broken by filename then content.
func rankByMetadata(q domain.ParsedQuery, docs []domain.Document, limit int) []domain.ScoredResult {
	scored := make([]domain.ScoredResult, 0, len(docs))
	for _, doc := range docs {
		score := scoreDocument(q, doc)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredResult{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Score:    score,
			Distance: domain.DistanceFromScore(score),
		})
	}

	sortScored(scored)

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func sortScored(results []domain.ScoredResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Metadata.Filename != results[j].Metadata.Filename {
			return results[i].Metadata.Filename < results[j].Metadata.Filename
		}
		return results[i].Content < results[j].Content
	})
}

// effectiveLimit widens the requested result count for course queries so
// that fragmented course rows surface together.
func effectiveLimit(q domain.ParsedQuery, limit int) int {
	if limit <= 0 {
		limit = 5
	}
	if q.CourseRelated && limit < courseMinResults {
		return courseMinResults
	}
	return limit
}
