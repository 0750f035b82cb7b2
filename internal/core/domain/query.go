package domain

import "strings"

// Query topic lexicons. Kept as package-level tables so routing and scoring
// rules can be extended without touching scoring arithmetic.
var (
	courseWords     = []string{"course", "class", "syllabus", "assignment", "project", "academic", "student"}
	currentWords    = []string{"current", "now", "ongoing", "present"}
	pastWords       = []string{"past", "previous", "completed", "finished"}
	researchWords   = []string{"research", "paper", "study", "investigation"}
	internshipWords = []string{"internship", "work experience", "job", "employment"}
	racingWords     = []string{"ashwa", "racing", "business", "planning"}
)

// Organization names the query parser recognizes. Aliases are additional
// phrases that count as a mention of the same organization.
var KnownOrganizations = []OrganizationRule{
	{Name: "abb"},
	{Name: "netradyne"},
	{Name: "iisc", Aliases: []string{"indian institute"}},
	{Name: "drcl"},
}

type OrganizationRule struct {
	Name    string
	Aliases []string
}

// ParsedQuery is the precomputed view of one free-text query: the lowered
// form, its word list, and boolean topic/entity flags. Building it once up
// front keeps the scorer and router free of repeated string scans.
type ParsedQuery struct {
	Raw     string
	Lowered string
	Words   []string

	Organizations []string // recognized org names mentioned, in rule order

	MentionsSAM2 bool
	WantsCurrent bool
	WantsPast    bool

	CourseRelated   bool
	ResearchTopic   bool
	InternshipTopic bool
	RacingTopic     bool
}

func ParseQuery(raw string) ParsedQuery {
	lowered := strings.ToLower(raw)
	q := ParsedQuery{
		Raw:     raw,
		Lowered: lowered,
		Words:   strings.Fields(lowered),
	}

	for _, org := range KnownOrganizations {
		if queryMentions(lowered, org) {
			q.Organizations = append(q.Organizations, org.Name)
		}
	}

	q.MentionsSAM2 = strings.Contains(lowered, "sam2")
	q.WantsCurrent = containsAny(lowered, currentWords)
	q.WantsPast = containsAny(lowered, pastWords)
	q.CourseRelated = containsAny(lowered, courseWords)
	q.ResearchTopic = containsAny(lowered, researchWords)
	q.InternshipTopic = containsAny(lowered, internshipWords)
	q.RacingTopic = containsAny(lowered, racingWords)
	return q
}

// Mentions reports whether the query names the given organization.
func (q ParsedQuery) Mentions(org string) bool {
	for _, name := range q.Organizations {
		if name == org {
			return true
		}
	}
	return false
}

// AnyWordIn reports whether any query word occurs as a substring of s.
// s must already be lowercased.
func (q ParsedQuery) AnyWordIn(s string) bool {
	if s == "" {
		return false
	}
	for _, w := range q.Words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// WordHits counts how many distinct query words occur as substrings of s.
// s must already be lowercased.
func (q ParsedQuery) WordHits(s string) int {
	hits := 0
	for _, w := range q.Words {
		if strings.Contains(s, w) {
			hits++
		}
	}
	return hits
}

func queryMentions(lowered string, org OrganizationRule) bool {
	if strings.Contains(lowered, org.Name) {
		return true
	}
	for _, alias := range org.Aliases {
		if strings.Contains(lowered, alias) {
			return true
		}
	}
	return false
}

func containsAny(lowered string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
