// Package xlsx extracts spreadsheets row by row. Course transcripts and
// similar tabular documents are indexed as one fragment per data row so a
// single course never shares a chunk with its neighbors.
package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, src *domain.SourceDocument) ([]string, error) {
	reader, err := e.storage.Open(ctx, src.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	book, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse spreadsheet %s: %w", src.Filename, err)
	}
	defer book.Close()

	var fragments []string
	for _, sheet := range book.GetSheetList() {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		header := rows[0]
		for _, row := range rows[1:] {
			if fragment := formatRow(header, row); fragment != "" {
				fragments = append(fragments, fragment)
			}
		}
	}
	return fragments, nil
}

// formatRow renders one data row as "header: value" pairs. Cells without a
// header column keep their position label so nothing is silently dropped.
func formatRow(header, row []string) string {
	pairs := make([]string, 0, len(row))
	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		name := fmt.Sprintf("column %d", i+1)
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			name = strings.TrimSpace(header[i])
		}
		pairs = append(pairs, name+": "+cell)
	}
	return strings.Join(pairs, ". ")
}
