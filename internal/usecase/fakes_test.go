package usecase

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
)

// memQueue is an in-memory QueueRepository. Pop returns redis.Nil on an
// empty queue, matching the Redis adapter.
type memQueue struct {
	jobs []entity.OrganizationQuery
}

func (q *memQueue) Push(_ context.Context, query entity.OrganizationQuery) error {
	q.jobs = append(q.jobs, query)
	return nil
}

func (q *memQueue) Pop(_ context.Context) (entity.OrganizationQuery, error) {
	if len(q.jobs) == 0 {
		return entity.OrganizationQuery{}, redis.Nil
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, nil
}

func (q *memQueue) Size(_ context.Context) (int64, error) {
	return int64(len(q.jobs)), nil
}

type memJobStatus struct {
	statuses map[string]string
}

func newMemJobStatus() *memJobStatus {
	return &memJobStatus{statuses: map[string]string{}}
}

func (s *memJobStatus) MarkStatus(_ context.Context, organization, status string, _ time.Duration) error {
	s.statuses[organization] = status
	return nil
}

func (s *memJobStatus) Status(_ context.Context, organization string) (string, error) {
	return s.statuses[organization], nil
}

func (s *memJobStatus) Clear(_ context.Context, organization string) error {
	delete(s.statuses, organization)
	return nil
}

type memDocuments struct {
	docs []entity.VerifiedDocument
}

func (d *memDocuments) Save(_ context.Context, doc *entity.VerifiedDocument) error {
	for i := range d.docs {
		if d.docs[i].URL == doc.URL {
			d.docs[i] = *doc
			return nil
		}
	}
	d.docs = append(d.docs, *doc)
	return nil
}

func (d *memDocuments) FindByOrganization(_ context.Context, organization string) ([]entity.VerifiedDocument, error) {
	var out []entity.VerifiedDocument
	for _, doc := range d.docs {
		if doc.Organization == organization {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (d *memDocuments) FindAll(_ context.Context) ([]entity.VerifiedDocument, error) {
	return d.docs, nil
}

func (d *memDocuments) DeleteByURL(_ context.Context, url string) error {
	for i := range d.docs {
		if d.docs[i].URL == url {
			d.docs = append(d.docs[:i], d.docs[i+1:]...)
			return nil
		}
	}
	return nil
}

type memOverrides struct {
	entries map[string]string
}

func newMemOverrides() *memOverrides {
	return &memOverrides{entries: map[string]string{}}
}

func (o *memOverrides) Upsert(_ context.Context, organization, url string) error {
	o.entries[organization] = url
	return nil
}

func (o *memOverrides) FindAll(_ context.Context) (map[string]string, error) {
	return o.entries, nil
}

// stubSearch fails or returns nothing; worker tests drive discovery through
// a known entry URL instead.
type stubSearch struct {
	err error
}

func (s *stubSearch) Search(_ context.Context, _ string, _ int) ([]entity.SearchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

// stubFetcher serves a fixed HTML body for every URL it knows.
type stubFetcher struct {
	pages map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (*entity.Page, error) {
	html, ok := f.pages[url]
	if !ok {
		return nil, repository.ErrFetchTimeout
	}
	return &entity.Page{URL: url, StatusCode: 200, HTML: html}, nil
}

type stubDownloader struct {
	probes map[string]repository.Probe
	bodies map[string][]byte
}

func (d *stubDownloader) Probe(_ context.Context, url string) (*repository.Probe, error) {
	p, ok := d.probes[url]
	if !ok {
		return nil, repository.ErrFetchTimeout
	}
	return &p, nil
}

func (d *stubDownloader) Download(_ context.Context, url string, _ int64) ([]byte, error) {
	body, ok := d.bodies[url]
	if !ok {
		return nil, repository.ErrFetchTimeout
	}
	return body, nil
}

type stubPDF struct {
	text string
}

func (p *stubPDF) Text(_ []byte, _ int) (string, error) { return p.text, nil }
func (p *stubPDF) MetadataTitle(_ []byte) string        { return "" }
