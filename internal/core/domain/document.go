package domain

import (
	"strings"
	"time"
)

// Timeline describes when an experience started and ended. Values are
// free-form strings as produced by ingestion ("Jan 2024", "2023", "ongoing").
type Timeline struct {
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// Metadata is the enriched attribute set attached to every indexed fragment.
// Every field is optional; absent payload values decode to zero values so the
// scorer never has to guard against missing keys. List-valued fields are
// comma-joined strings, split with SplitList.
type Metadata struct {
	Filename          string   `json:"filename,omitempty"`
	DocumentType      string   `json:"document_type,omitempty"`
	Organization      string   `json:"organization,omitempty"`
	Organizations     string   `json:"organizations,omitempty"`
	Role              string   `json:"role,omitempty"`
	SemanticTags      string   `json:"semantic_tags,omitempty"`
	SkillDomains      string   `json:"skill_domains,omitempty"`
	Technologies      string   `json:"technologies,omitempty"`
	Locations         string   `json:"locations,omitempty"`
	RelevanceKeywords string   `json:"relevance_keywords,omitempty"`
	ExperienceType    string   `json:"experience_type,omitempty"`
	Timeline          Timeline `json:"timeline,omitempty"`
	ComplexityScore   float64  `json:"complexity_score,omitempty"`
	ImpactScore       float64  `json:"impact_score,omitempty"`
}

// Document is one indexed knowledge fragment: a chunk of text plus its
// enriched metadata. Documents are written by ingestion and read-only for
// retrieval.
type Document struct {
	ID       string   `json:"id,omitempty"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// ScoredResult is a Document annotated with a relevance score for one query.
// Distance is the inverse transform 1/(score+1) so that semantic-search
// output and locally computed scores order the same way (lower = more
// relevant). Results are transient and never persisted.
type ScoredResult struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
	Score    float64  `json:"score"`
	Distance float64  `json:"distance"`
}

// DistanceFromScore maps a non-negative relevance score into (0, 1],
// strictly decreasing in score.
func DistanceFromScore(score float64) float64 {
	return 1.0 / (score + 1.0)
}

// SplitList splits a comma-joined metadata list into trimmed entries,
// dropping empties and ingestion placeholders.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		switch strings.ToLower(p) {
		case "none", "n/a":
			continue
		}
		out = append(out, p)
	}
	return out
}

type SourceStatus string

const (
	SourceUploaded   SourceStatus = "uploaded"
	SourceProcessing SourceStatus = "processing"
	SourceReady      SourceStatus = "ready"
	SourceFailed     SourceStatus = "failed"
)

// SourceDocument is an uploaded file tracked through the ingestion pipeline.
// Its enriched Metadata is stamped onto every fragment indexed from it.
type SourceDocument struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	MimeType    string       `json:"mime_type"`
	StoragePath string       `json:"storage_path"`
	Metadata    Metadata     `json:"metadata"`
	Status      SourceStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// KnowledgeStats summarizes the indexed corpus.
type KnowledgeStats struct {
	TotalDocuments int            `json:"total_documents"`
	TotalWords     int            `json:"total_words"`
	DocumentTypes  map[string]int `json:"document_types"`
	UniqueFiles    int            `json:"unique_files"`
}
