// Package extract provides plain-text extraction from uploaded PDF content.
package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// TextExtractor extracts plain text from PDF content.
// maxPages limits how many pages are read; zero or negative means all pages.
type TextExtractor interface {
	Text(content []byte, maxPages int) (string, error)
}

// PDFExtractor extracts text locally without any external service.
type PDFExtractor struct{}

// NewPDF returns a new PDFExtractor.
func NewPDF() *PDFExtractor {
	return &PDFExtractor{}
}

var _ TextExtractor = (*PDFExtractor)(nil)

// Text extracts the plain text of the first maxPages pages of a PDF.
// Each page's text is followed by a newline.
func (e *PDFExtractor) Text(content []byte, maxPages int) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	numPages := r.NumPage()
	if maxPages > 0 && numPages > maxPages {
		numPages = maxPages
	}

	var buf bytes.Buffer
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		buf.WriteString(text)
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}
