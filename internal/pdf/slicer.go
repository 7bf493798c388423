// Package pdf provides page counting and page-range extraction for uploaded
// report documents, backed by pdfcpu.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Slicer implements port.DocumentSlicer over in-memory PDF bytes.
type Slicer struct {
	conf *model.Configuration
}

// NewSlicer creates a Slicer with a relaxed validation configuration, since
// insurer-generated PDFs are frequently not strictly conformant.
func NewSlicer() *Slicer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Slicer{conf: conf}
}

func (s *Slicer) PageCount(doc []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(doc), s.conf)
	if err != nil {
		return 0, fmt.Errorf("pdf page count: %w", err)
	}
	return n, nil
}

// ExtractPages writes pages from..to (inclusive, 1-based) into a standalone
// PDF document.
func (s *Slicer) ExtractPages(doc []byte, from, to int) ([]byte, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("pdf extract: invalid page range %d-%d", from, to)
	}
	var buf bytes.Buffer
	pages := []string{fmt.Sprintf("%d-%d", from, to)}
	if err := api.Trim(bytes.NewReader(doc), &buf, pages, s.conf); err != nil {
		return nil, fmt.Errorf("pdf extract pages %d-%d: %w", from, to, err)
	}
	return buf.Bytes(), nil
}
