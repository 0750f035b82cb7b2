// Package extractor routes a source document to the extractor for its
// format, chosen by file extension with the MIME type as a fallback.
package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/core/ports"
)

type Dispatcher struct {
	plain ports.TextExtractor
	pdf   ports.TextExtractor
	xlsx  ports.TextExtractor
}

func NewDispatcher(plain, pdf, xlsx ports.TextExtractor) *Dispatcher {
	return &Dispatcher{plain: plain, pdf: pdf, xlsx: xlsx}
}

func (d *Dispatcher) Extract(ctx context.Context, src *domain.SourceDocument) ([]string, error) {
	switch strings.ToLower(filepath.Ext(src.Filename)) {
	case ".pdf":
		return d.pdf.Extract(ctx, src)
	case ".xlsx", ".xlsm":
		return d.xlsx.Extract(ctx, src)
	case ".txt", ".md", ".json", ".csv":
		return d.plain.Extract(ctx, src)
	}

	switch src.MimeType {
	case "application/pdf":
		return d.pdf.Extract(ctx, src)
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return d.xlsx.Extract(ctx, src)
	default:
		return d.plain.Extract(ctx, src)
	}
}
