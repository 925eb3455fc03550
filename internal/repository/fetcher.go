package repository

import (
	"context"
	"errors"

	"github.com/user/esg-discovery/internal/entity"
)

var (
	// ErrFetchBlocked signals a blocking HTTP status (401, 403, 429, 503).
	// The crawl engine escalates to the rendering fetcher on it.
	ErrFetchBlocked = errors.New("fetch blocked by target server")
	// ErrFetchTimeout signals a deadline hit anywhere in a fetch.
	ErrFetchTimeout = errors.New("fetch timed out")
	// ErrRenderFailed signals that the rendering fetcher could not produce a page.
	ErrRenderFailed = errors.New("page rendering failed")
)

// Fetcher retrieves a URL and returns the resulting page. Implementations:
// the static HTTP fetcher and the chromedp rendering fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*entity.Page, error)
}

// Probe is the header-level view of a remote document, read from a streamed
// request without downloading the body.
type Probe struct {
	ContentType   string
	ContentLength int64 // -1 when the server did not declare one
	StatusCode    int
}

// Downloader performs the verifier's document fetches.
type Downloader interface {
	// Probe reads status and headers only.
	Probe(ctx context.Context, url string) (*Probe, error)
	// Download reads the body up to maxBytes.
	Download(ctx context.Context, url string, maxBytes int64) ([]byte, error)
}
