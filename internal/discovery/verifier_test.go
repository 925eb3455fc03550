package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
)

func testVerifierConfig() VerifierConfig {
	return VerifierConfig{Workers: 3, MinPDFBytes: 64, MaxPDFDownload: 4096}
}

func pdfBody(filler int) []byte {
	body := []byte("%PDF-1.7\n")
	return append(body, make([]byte, filler)...)
}

func acmeQuery() entity.OrganizationQuery {
	return entity.OrganizationQuery{Name: "Acme Corp"}
}

func candidate(url string) []entity.LinkCandidate {
	return []entity.LinkCandidate{{URL: url, Title: "ESG Report 2024"}}
}

func TestVerifyAcceptsPDFReport(t *testing.T) {
	url := "https://acme.com/esg-2024.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200}},
		bodies: map[string][]byte{url: pdfBody(128)},
	}
	pdf := &fakePDF{text: "Acme Corp Sustainability Report for fiscal 2024"}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)

	require.Len(t, docs, 1)
	assert.Equal(t, "Verified PDF Report", docs[0].Summary)
	assert.Equal(t, "ESG Report 2024", docs[0].Title)
	assert.Equal(t, entity.StrategyHubCrawl, docs[0].SourceStrategy)
	assert.Equal(t, "Acme Corp", docs[0].Organization)
}

func TestVerifyAcceptsHTMLWithoutDownload(t *testing.T) {
	url := "https://acme.com/esg-overview"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "text/html; charset=utf-8", ContentLength: -1, StatusCode: 200}},
	}
	v := NewVerifier(dl, &fakePDF{}, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)

	require.Len(t, docs, 1)
	assert.Equal(t, "Webpage Report / Resource", docs[0].Summary)
	assert.Empty(t, dl.downloads)
}

func TestVerifyRejectsUnexpectedContentType(t *testing.T) {
	url := "https://acme.com/logo.png"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "image/png", ContentLength: 2048, StatusCode: 200}},
	}
	v := NewVerifier(dl, &fakePDF{}, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)
	assert.Empty(t, docs)
}

func TestVerifyOctetStreamWithPDFPathIsPDFLike(t *testing.T) {
	url := "https://acme.com/dl/esg-2024.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/octet-stream", ContentLength: 2048, StatusCode: 200}},
		bodies: map[string][]byte{url: pdfBody(128)},
	}
	pdf := &fakePDF{text: "Acme Corp annual sustainability summary"}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)
	assert.Len(t, docs, 1)
}

func TestVerifyRejectsTinyPDFByHeader(t *testing.T) {
	url := "https://acme.com/stub.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 10, StatusCode: 200}},
	}
	v := NewVerifier(dl, &fakePDF{}, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)
	assert.Empty(t, docs)
	assert.Empty(t, dl.downloads, "a header-rejected candidate must not be downloaded")
}

func TestVerifyAcceptsOversizedPDFWithoutDownload(t *testing.T) {
	url := "https://acme.com/huge.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 1 << 30, StatusCode: 200}},
	}
	v := NewVerifier(dl, &fakePDF{}, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)

	require.Len(t, docs, 1)
	assert.Equal(t, "Verified Large PDF Report", docs[0].Summary)
	assert.Empty(t, dl.downloads)
}

func TestVerifyRejectsMissingMagicBytes(t *testing.T) {
	url := "https://acme.com/fake.pdf"
	body := append([]byte("<html>not a pdf"), make([]byte, 128)...)
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: -1, StatusCode: 200}},
		bodies: map[string][]byte{url: body},
	}
	v := NewVerifier(dl, &fakePDF{}, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)
	assert.Empty(t, docs)
}

func TestVerifyRejectsTextMissingOrganization(t *testing.T) {
	url := "https://acme.com/esg-2024.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200}},
		bodies: map[string][]byte{url: pdfBody(128)},
	}
	pdf := &fakePDF{text: "Globex Industries sustainability report 2024"}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)
	assert.Empty(t, docs)
}

func TestVerifyRejectsTextMissingKeywords(t *testing.T) {
	url := "https://acme.com/esg-2024.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200}},
		bodies: map[string][]byte{url: pdfBody(128)},
	}
	pdf := &fakePDF{text: "Acme Corp employee onboarding handbook"}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)
	assert.Empty(t, docs)
}

func TestVerifyRejectsMalformedPDF(t *testing.T) {
	url := "https://acme.com/broken.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200}},
		bodies: map[string][]byte{url: pdfBody(128)},
	}
	pdf := &fakePDF{err: repository.ErrMalformedDocument}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)
	assert.Empty(t, docs)
}

func TestVerifyPrefersMetadataTitle(t *testing.T) {
	url := "https://acme.com/esg-2024.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200}},
		bodies: map[string][]byte{url: pdfBody(128)},
	}
	pdf := &fakePDF{
		text:  "Acme Corp sustainability report",
		title: "Acme Corp 2024 Integrated Sustainability Report",
	}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)

	require.Len(t, docs, 1)
	assert.Equal(t, "Acme Corp 2024 Integrated Sustainability Report", docs[0].Title)
}

func TestVerifyIgnoresGenericMetadataTitle(t *testing.T) {
	url := "https://acme.com/esg-2024.pdf"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{url: {ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200}},
		bodies: map[string][]byte{url: pdfBody(128)},
	}
	pdf := &fakePDF{text: "Acme Corp sustainability report", title: "Report"}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidate(url), acmeQuery(), entity.StrategyHubCrawl)

	require.Len(t, docs, 1)
	assert.Equal(t, "ESG Report 2024", docs[0].Title)
}

func TestVerifyAllPreservesInputOrder(t *testing.T) {
	urls := []string{
		"https://acme.com/esg-2024.pdf",
		"https://acme.com/esg-2023.pdf",
		"https://acme.com/esg-2022.pdf",
		"https://acme.com/esg-2021.pdf",
	}
	dl := &fakeDownloader{probes: map[string]repository.Probe{}, bodies: map[string][]byte{}}
	var candidates []entity.LinkCandidate
	for _, u := range urls {
		dl.probes[u] = repository.Probe{ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200}
		dl.bodies[u] = pdfBody(128)
		candidates = append(candidates, entity.LinkCandidate{URL: u, Title: u})
	}
	pdf := &fakePDF{text: "Acme Corp sustainability report"}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), candidates, acmeQuery(), entity.StrategyHubCrawl)

	require.Len(t, docs, len(urls))
	for i, u := range urls {
		assert.Equal(t, u, docs[i].URL)
	}
}

func TestVerifyAllCompactsRejections(t *testing.T) {
	good := "https://acme.com/esg-2024.pdf"
	bad := "https://acme.com/logo.png"
	dl := &fakeDownloader{
		probes: map[string]repository.Probe{
			bad:  {ContentType: "image/png", ContentLength: 2048, StatusCode: 200},
			good: {ContentType: "application/pdf", ContentLength: 2048, StatusCode: 200},
		},
		bodies: map[string][]byte{good: pdfBody(128)},
	}
	pdf := &fakePDF{text: "Acme Corp sustainability report"}
	v := NewVerifier(dl, pdf, testVerifierConfig())

	docs := v.VerifyAll(context.Background(), []entity.LinkCandidate{
		{URL: bad, Title: "Logo"},
		{URL: good, Title: "ESG Report 2024"},
	}, acmeQuery(), entity.StrategyHubCrawl)

	require.Len(t, docs, 1)
	assert.Equal(t, good, docs[0].URL)
}
