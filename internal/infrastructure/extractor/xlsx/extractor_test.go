package xlsx

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

type memoryStorage struct {
	data map[string][]byte
}

func (m *memoryStorage) Save(ctx context.Context, key string, data io.Reader) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = b
	return nil
}

func (m *memoryStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data[key])), nil
}

func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := book.SetCellValue(sheet, name, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestExtractOneFragmentPerRow(t *testing.T) {
	raw := buildWorkbook(t, [][]string{
		{"course_name", "course_code", "status", "grade"},
		{"Computer Vision", "CS231N", "Completed", "A"},
		{"Distributed Systems", "CSCI 5103", "Completed", "A-"},
	})

	storage := &memoryStorage{}
	if err := storage.Save(context.Background(), "k", bytes.NewReader(raw)); err != nil {
		t.Fatalf("save: %v", err)
	}

	e := NewExtractor(storage)
	fragments, err := e.Extract(context.Background(), &domain.SourceDocument{Filename: "courses.xlsx", StoragePath: "k"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(fragments) != 2 {
		t.Fatalf("fragments = %d, want 2", len(fragments))
	}
	if !strings.Contains(fragments[0], "course_name: Computer Vision") || !strings.Contains(fragments[0], "status: Completed") {
		t.Fatalf("fragment = %q", fragments[0])
	}
	if !strings.Contains(fragments[1], "course_code: CSCI 5103") {
		t.Fatalf("fragment = %q", fragments[1])
	}
}

func TestExtractSkipsEmptyCells(t *testing.T) {
	raw := buildWorkbook(t, [][]string{
		{"course_name", "grade"},
		{"Robotics", ""},
	})

	storage := &memoryStorage{}
	_ = storage.Save(context.Background(), "k", bytes.NewReader(raw))

	e := NewExtractor(storage)
	fragments, err := e.Extract(context.Background(), &domain.SourceDocument{Filename: "courses.xlsx", StoragePath: "k"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(fragments) != 1 || strings.Contains(fragments[0], "grade") {
		t.Fatalf("fragments = %v", fragments)
	}
}
