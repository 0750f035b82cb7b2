package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

const enrichPromptTemplate = `Analyze this document and extract structured metadata about it.

Filename: %s

Document text:
%s

Return a JSON object with exactly these fields (use "" for unknown strings, 0 for unknown numbers):
{
  "document_type": "one of: internship, research, academic, resume, project, document",
  "organization": "primary organization this document is about",
  "organizations": "comma-separated list of every organization mentioned",
  "role": "the person's role or title in this document",
  "semantic_tags": "comma-separated topical tags",
  "skill_domains": "comma-separated skill areas",
  "technologies": "comma-separated tools and technologies",
  "locations": "comma-separated locations",
  "relevance_keywords": "comma-separated search keywords",
  "experience_type": "current or past",
  "timeline_start": "start of the described period, e.g. Jan 2024",
  "timeline_end": "end of the described period, or \"\" if ongoing",
  "timeline_duration": "human-readable duration",
  "complexity_score": 0,
  "impact_score": 0
}
complexity_score and impact_score are numbers from 0 to 10.`

// enrichedMetadata mirrors the flat JSON shape the model is asked for.
type enrichedMetadata struct {
	DocumentType      string  `json:"document_type"`
	Organization      string  `json:"organization"`
	Organizations     string  `json:"organizations"`
	Role              string  `json:"role"`
	SemanticTags      string  `json:"semantic_tags"`
	SkillDomains      string  `json:"skill_domains"`
	Technologies      string  `json:"technologies"`
	Locations         string  `json:"locations"`
	RelevanceKeywords string  `json:"relevance_keywords"`
	ExperienceType    string  `json:"experience_type"`
	TimelineStart     string  `json:"timeline_start"`
	TimelineEnd       string  `json:"timeline_end"`
	TimelineDuration  string  `json:"timeline_duration"`
	ComplexityScore   float64 `json:"complexity_score"`
	ImpactScore       float64 `json:"impact_score"`
}

func (c *Client) Enrich(ctx context.Context, filename, text string) (domain.Metadata, error) {
	prompt := fmt.Sprintf(enrichPromptTemplate, filename, text)

	raw, err := c.GenerateJSONFromPrompt(ctx, prompt)
	if err != nil {
		return domain.Metadata{}, err
	}

	var enriched enrichedMetadata
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &enriched); err != nil {
		return domain.Metadata{}, fmt.Errorf("parse enrichment response: %w", err)
	}

	return domain.Metadata{
		Filename:          filename,
		DocumentType:      strings.ToLower(strings.TrimSpace(enriched.DocumentType)),
		Organization:      strings.TrimSpace(enriched.Organization),
		Organizations:     enriched.Organizations,
		Role:              strings.TrimSpace(enriched.Role),
		SemanticTags:      enriched.SemanticTags,
		SkillDomains:      enriched.SkillDomains,
		Technologies:      enriched.Technologies,
		Locations:         enriched.Locations,
		RelevanceKeywords: enriched.RelevanceKeywords,
		ExperienceType:    strings.ToLower(strings.TrimSpace(enriched.ExperienceType)),
		Timeline: domain.Timeline{
			Start:    strings.TrimSpace(enriched.TimelineStart),
			End:      strings.TrimSpace(enriched.TimelineEnd),
			Duration: strings.TrimSpace(enriched.TimelineDuration),
		},
		ComplexityScore: clampScore(enriched.ComplexityScore),
		ImpactScore:     clampScore(enriched.ImpactScore),
	}, nil
}

// stripCodeFences tolerates models that wrap JSON in a markdown block even
// when asked for raw JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
