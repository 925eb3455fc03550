package repository

import "errors"

// ErrMalformedDocument signals content that failed the PDF magic-byte check
// or could not be parsed. Verification rejects the candidate and moves on.
var ErrMalformedDocument = errors.New("malformed document")

// PDFExtractor pulls text and metadata out of a downloaded PDF body.
type PDFExtractor interface {
	// Text extracts text from up to the first maxPages pages.
	Text(data []byte, maxPages int) (string, error)
	// MetadataTitle returns the embedded document title, or "" when absent.
	MetadataTitle(data []byte) string
}
