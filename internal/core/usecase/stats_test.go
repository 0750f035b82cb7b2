package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

func TestStatsSummarizesCorpus(t *testing.T) {
	index := &fakeIndex{docs: []domain.Document{
		{Content: "one two three", Metadata: domain.Metadata{Filename: "a.txt", DocumentType: "research"}},
		{Content: "four five", Metadata: domain.Metadata{Filename: "a.txt", DocumentType: "research"}},
		{Content: "six", Metadata: domain.Metadata{Filename: "b.xlsx", DocumentType: "academic"}},
		{Content: "seven", Metadata: domain.Metadata{Filename: "c.txt"}},
	}}
	uc := NewStatsUseCase(index)

	stats, err := uc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalDocuments != 4 {
		t.Fatalf("documents = %d, want 4", stats.TotalDocuments)
	}
	if stats.TotalWords != 7 {
		t.Fatalf("words = %d, want 7", stats.TotalWords)
	}
	if stats.UniqueFiles != 3 {
		t.Fatalf("files = %d, want 3", stats.UniqueFiles)
	}
	if stats.DocumentTypes["research"] != 2 || stats.DocumentTypes["academic"] != 1 || stats.DocumentTypes["unknown"] != 1 {
		t.Fatalf("types = %v", stats.DocumentTypes)
	}
}

func TestStatsPropagatesEnumerationFailure(t *testing.T) {
	uc := NewStatsUseCase(&fakeIndex{listErr: errors.New("down")})
	if _, err := uc.Stats(context.Background()); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("err = %v, want temporary", err)
	}
}
