// Package parser extracts text from uploaded documents.
package parser

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"

	"semantiapi/internal/apperr"
	"semantiapi/internal/model"
)

// MaxPages is the largest document Parse accepts.
const MaxPages = 5

// ErrTooLarge is returned for documents with more than MaxPages pages.
var ErrTooLarge = apperr.PayloadTooLarge("document too large")

// ParsePDF reads the text of every page of the PDF in r.
func ParsePDF(r io.ReaderAt, size int64) (*model.ParsedContent, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, apperr.Wrap(http.StatusInternalServerError, fmt.Sprintf("Error parsing document: %v", err), err)
	}

	n := doc.NumPage()
	if n > MaxPages {
		return nil, ErrTooLarge
	}

	out := &model.ParsedContent{
		Sections: make([]model.ParsedSection, 0, n),
		Metadata: map[string]any{"pages": n},
	}
	var total int
	for i := 1; i <= n; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, apperr.Wrap(http.StatusInternalServerError, fmt.Sprintf("Error parsing document: page %d: %v", i, err), err)
		}
		text = strings.TrimSpace(text)
		total += len(text)
		out.Sections = append(out.Sections, model.ParsedSection{Page: i, Text: text})
	}
	out.Metadata["characters"] = total
	return out, nil
}

// Text joins the page texts with blank lines.
func Text(pc *model.ParsedContent) string {
	if pc == nil {
		return ""
	}
	parts := make([]string, 0, len(pc.Sections))
	for _, s := range pc.Sections {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n\n")
}
