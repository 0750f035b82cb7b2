package usecase

import (
	"testing"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func TestResultsAreRelevant(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		results []domain.ScoredResult
		want    bool
	}{
		{
			name:  "research query with tracker filename",
			query: "what research is he doing",
			results: []domain.ScoredResult{
				{Metadata: domain.Metadata{Filename: "Research Tracker.txt"}, Content: "weekly notes"},
			},
			want: true,
		},
		{
			name:  "research query with research in body",
			query: "research interests",
			results: []domain.ScoredResult{
				{Metadata: domain.Metadata{Filename: "profile.txt"}, Content: "His research focuses on segmentation."},
			},
			want: true,
		},
		{
			name:  "internship query with netradyne body",
			query: "internship experience",
			results: []domain.ScoredResult{
				{Metadata: domain.Metadata{Filename: "summary.txt"}, Content: "Worked at Netradyne on perception."},
			},
			want: true,
		},
		{
			name:  "racing query without ashwa filename",
			query: "racing team",
			results: []domain.ScoredResult{
				{Metadata: domain.Metadata{Filename: "courses.xlsx"}, Content: "racing is mentioned once"},
			},
			want: false,
		},
		{
			name:  "racing query with ashwa filename",
			query: "racing team",
			results: []domain.ScoredResult{
				{Metadata: domain.Metadata{Filename: "ASHWA Plan.txt"}, Content: "season goals"},
			},
			want: true,
		},
		{
			name:  "generic query with two word hits",
			query: "robot perception",
			results: []domain.ScoredResult{
				{Metadata: domain.Metadata{Filename: "x.txt"}, Content: "robotics and perception systems"},
			},
			want: true,
		},
		{
			name:  "generic query with single hit",
			query: "quantum chemistry",
			results: []domain.ScoredResult{
				{Metadata: domain.Metadata{Filename: "x.txt"}, Content: "nothing about chemistry here"},
			},
			want: false,
		},
		{
			name:    "empty results",
			query:   "anything",
			results: nil,
			want:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := domain.ParseQuery(tc.query)
			if got := resultsAreRelevant(q, tc.results); got != tc.want {
				t.Fatalf("relevant = %v, want %v", got, tc.want)
			}
		})
	}
}
