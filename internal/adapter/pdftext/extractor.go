// Package pdftext implements PDF text and metadata extraction for the
// content verifier.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/user/esg-discovery/internal/repository"
)

// Extractor implements repository.PDFExtractor on ledongthuc/pdf.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Text extracts plain text from up to the first maxPages pages. The parser
// panics on some malformed files, so the whole call is recovered into
// ErrMalformedDocument.
func (e *Extractor) Text(data []byte, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", repository.ErrMalformedDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrMalformedDocument, err)
	}

	pages := reader.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Pages that fail individually are skipped; partial text is enough
		// for the verifier's keyword checks.
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// MetadataTitle returns the embedded document title, or "" when absent or
// unreadable.
func (e *Extractor) MetadataTitle(data []byte) (title string) {
	defer func() {
		if r := recover(); r != nil {
			title = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	t := info.Key("Title")
	if t.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(t.RawString())
}
