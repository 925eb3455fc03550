package discovery

import (
	"context"
	"strings"

	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
)

// fakeSearch answers queries by substring match against its keys and records
// every query it received.
type fakeSearch struct {
	results map[string][]entity.SearchResult
	err     error
	calls   []string
}

func (f *fakeSearch) Search(_ context.Context, query string, _ int) ([]entity.SearchResult, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	for key, res := range f.results {
		if strings.Contains(query, key) {
			return res, nil
		}
	}
	return nil, nil
}

// fakeOverrides is an in-memory HubOverrideRepository.
type fakeOverrides struct {
	entries map[string]string
	err     error
}

func (f *fakeOverrides) Upsert(_ context.Context, organization, url string) error {
	f.entries[strings.ToLower(organization)] = url
	return nil
}

func (f *fakeOverrides) FindAll(_ context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

// fakeFetcher serves static HTML pages from a map and records fetch order.
type fakeFetcher struct {
	pages   map[string]string
	errs    map[string]error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*entity.Page, error) {
	f.fetched = append(f.fetched, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, repository.ErrFetchTimeout
	}
	return &entity.Page{URL: url, StatusCode: 200, HTML: html}, nil
}

// fakeDownloader serves probes and bodies from maps.
type fakeDownloader struct {
	probes    map[string]repository.Probe
	bodies    map[string][]byte
	downloads []string
}

func (f *fakeDownloader) Probe(_ context.Context, url string) (*repository.Probe, error) {
	p, ok := f.probes[url]
	if !ok {
		return nil, repository.ErrFetchTimeout
	}
	return &p, nil
}

func (f *fakeDownloader) Download(_ context.Context, url string, _ int64) ([]byte, error) {
	f.downloads = append(f.downloads, url)
	body, ok := f.bodies[url]
	if !ok {
		return nil, repository.ErrFetchTimeout
	}
	return body, nil
}

// fakePDF returns canned text and metadata regardless of input.
type fakePDF struct {
	text  string
	title string
	err   error
}

func (f *fakePDF) Text(_ []byte, _ int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakePDF) MetadataTitle(_ []byte) string {
	return f.title
}
