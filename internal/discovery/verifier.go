package discovery

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
	"github.com/user/esg-discovery/pkg/metrics"
	"github.com/user/esg-discovery/pkg/utils"
)

var pdfMagic = []byte("%PDF")

// Sanity keywords: at least one must appear in the extracted text, or the
// PDF is something unrelated (an employee handbook) that slipped through.
var verifyKeywords = []string{
	"report", "sustainability", "esg", "annual", "review", "fiscal", "summary",
}

const verifyTextPages = 3

// VerifierConfig bounds the verification stage. Workers is the single
// concurrency knob for the whole stage.
type VerifierConfig struct {
	Workers        int
	MinPDFBytes    int64
	MaxPDFDownload int64
}

// Verifier confirms that a candidate URL is plausibly a disclosure document
// for the queried organization by fetching and inspecting its content.
type Verifier struct {
	downloader repository.Downloader
	pdf        repository.PDFExtractor
	cfg        VerifierConfig
}

func NewVerifier(downloader repository.Downloader, pdf repository.PDFExtractor, cfg VerifierConfig) *Verifier {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Verifier{downloader: downloader, pdf: pdf, cfg: cfg}
}

// VerifyAll runs candidates through verification on a bounded worker pool.
// Results keep the candidates' input order regardless of completion order;
// rejected candidates leave a nil slot that is compacted before returning.
func (v *Verifier) VerifyAll(ctx context.Context, candidates []entity.LinkCandidate, query entity.OrganizationQuery, strategy string) []entity.VerifiedDocument {
	results := make([]*entity.VerifiedDocument, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < v.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = v.verify(ctx, candidates[i], query, strategy)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var accepted []entity.VerifiedDocument
	for _, doc := range results {
		if doc != nil {
			accepted = append(accepted, *doc)
		}
	}
	return accepted
}

// verify applies the gate sequence; every failure is a reject for this one
// candidate, never an error for the run.
func (v *Verifier) verify(ctx context.Context, cand entity.LinkCandidate, query entity.OrganizationQuery, strategy string) *entity.VerifiedDocument {
	probe, err := v.downloader.Probe(ctx, cand.URL)
	if err != nil {
		slog.Debug("probe failed, candidate rejected", "url", cand.URL, "error", err)
		metrics.VerificationsTotal.WithLabelValues("error").Inc()
		return nil
	}

	ctype := strings.ToLower(probe.ContentType)
	pdfLike := strings.Contains(ctype, "pdf") ||
		(strings.Contains(ctype, "octet-stream") && utils.IsPDFURL(cand.URL))
	htmlLike := strings.Contains(ctype, "text/html")

	switch {
	case htmlLike:
		// The anchor-text classification already gated webpage resources;
		// no deep content check applies.
		metrics.VerificationsTotal.WithLabelValues("accepted").Inc()
		return v.document(cand, query, strategy, cand.Title, "Webpage Report / Resource")
	case !pdfLike:
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return nil
	}

	if probe.ContentLength >= 0 && probe.ContentLength < v.cfg.MinPDFBytes {
		// Too small to be a real report; commonly an error stub mislabeled
		// as PDF.
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return nil
	}
	if probe.ContentLength > v.cfg.MaxPDFDownload {
		// Deliberate shortcut: very large reports are reliably genuine and
		// not worth the bandwidth to confirm.
		metrics.VerificationsTotal.WithLabelValues("accepted_large").Inc()
		return v.document(cand, query, strategy, cand.Title, "Verified Large PDF Report")
	}

	data, err := v.downloader.Download(ctx, cand.URL, v.cfg.MaxPDFDownload)
	if err != nil {
		slog.Debug("download failed, candidate rejected", "url", cand.URL, "error", err)
		metrics.VerificationsTotal.WithLabelValues("error").Inc()
		return nil
	}
	if int64(len(data)) < v.cfg.MinPDFBytes || !bytes.HasPrefix(data, pdfMagic) {
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return nil
	}

	text, err := v.pdf.Text(data, verifyTextPages)
	if err != nil {
		slog.Debug("pdf parse failed, candidate rejected", "url", cand.URL, "error", err)
		metrics.VerificationsTotal.WithLabelValues("error").Inc()
		return nil
	}
	lowerText := strings.ToLower(text)

	// The strongest identity signal: report hubs routinely list peer
	// documents, so the organization itself must appear early in the text.
	if token := query.SignificantToken(); token != "" && !strings.Contains(lowerText, token) {
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return nil
	}
	if !containsAny(lowerText, verifyKeywords) {
		metrics.VerificationsTotal.WithLabelValues("rejected").Inc()
		return nil
	}

	title := cand.Title
	if meta := strings.TrimSpace(v.pdf.MetadataTitle(data)); len(meta) > 5 && !isGeneric(meta) {
		title = meta
	}

	metrics.VerificationsTotal.WithLabelValues("accepted").Inc()
	return v.document(cand, query, strategy, title, "Verified PDF Report")
}

func (v *Verifier) document(cand entity.LinkCandidate, query entity.OrganizationQuery, strategy, title, summary string) *entity.VerifiedDocument {
	return &entity.VerifiedDocument{
		Organization:   query.Name,
		Title:          title,
		URL:            cand.URL,
		Summary:        summary,
		SourceStrategy: strategy,
	}
}
