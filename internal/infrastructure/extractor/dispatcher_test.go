package extractor

import (
	"context"
	"testing"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

type stubExtractor struct {
	tag string
}

func (s *stubExtractor) Extract(ctx context.Context, src *domain.SourceDocument) ([]string, error) {
	return []string{s.tag}, nil
}

func TestDispatcherRoutesByExtension(t *testing.T) {
	d := NewDispatcher(&stubExtractor{tag: "plain"}, &stubExtractor{tag: "pdf"}, &stubExtractor{tag: "xlsx"})

	cases := []struct {
		filename string
		mime     string
		want     string
	}{
		{"report.PDF", "", "pdf"},
		{"courses.xlsx", "", "xlsx"},
		{"notes.txt", "", "plain"},
		{"unknown.bin", "application/pdf", "pdf"},
		{"unknown.bin", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"},
		{"unknown.bin", "text/plain", "plain"},
	}
	for _, tc := range cases {
		got, err := d.Extract(context.Background(), &domain.SourceDocument{Filename: tc.filename, MimeType: tc.mime})
		if err != nil {
			t.Fatalf("extract %s: %v", tc.filename, err)
		}
		if got[0] != tc.want {
			t.Fatalf("%s routed to %s, want %s", tc.filename, got[0], tc.want)
		}
	}
}
