// Package httpfetch is the static fetcher: plain HTTP, no script execution.
// It also implements the verifier's header probe and bounded download.
package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
)

// Some corporate sites serve bot-friendly pages only to recognizable
// browsers.
const browserUserAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`

const maxPageBytes = 5 * 1024 * 1024

// Statuses that trigger escalation to the rendering fetcher.
var blockingStatuses = map[int]bool{
	http.StatusUnauthorized:       true,
	http.StatusForbidden:          true,
	http.StatusTooManyRequests:    true,
	http.StatusServiceUnavailable: true,
}

// Client implements repository.Fetcher and repository.Downloader over
// net/http. Header probes run on a shorter timeout than full downloads.
type Client struct {
	page     *http.Client
	probe    *http.Client
	download *http.Client
}

func New(fetchTimeout, probeTimeout, downloadTimeout time.Duration) *Client {
	return &Client{
		page:     &http.Client{Timeout: fetchTimeout},
		probe:    &http.Client{Timeout: probeTimeout},
		download: &http.Client{Timeout: downloadTimeout},
	}
}

// Fetch retrieves a page body and surfaces the status code and the
// effective post-redirect URL.
func (c *Client) Fetch(ctx context.Context, url string) (*entity.Page, error) {
	resp, err := c.get(ctx, c.page, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if blockingStatuses[resp.StatusCode] {
		return nil, fmt.Errorf("%w: status %d for %s", repository.ErrFetchBlocked, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, wrapNetErr(err)
	}

	return &entity.Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}

// Probe reads status and headers from a streamed request without consuming
// the body.
func (c *Client) Probe(ctx context.Context, url string) (*repository.Probe, error) {
	resp, err := c.get(ctx, c.probe, url)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("probe of %s: unexpected status %d", url, resp.StatusCode)
	}
	return &repository.Probe{
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		StatusCode:    resp.StatusCode,
	}, nil
}

// Download reads the body up to maxBytes.
func (c *Client) Download(ctx context.Context, url string, maxBytes int64) ([]byte, error) {
	resp, err := c.get(ctx, c.download, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download of %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, wrapNetErr(err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, wrapNetErr(err)
	}
	return resp, nil
}

func wrapNetErr(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", repository.ErrFetchTimeout, err)
	}
	return err
}
