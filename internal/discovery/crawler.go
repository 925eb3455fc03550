package discovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
	"github.com/user/esg-discovery/pkg/metrics"
	"github.com/user/esg-discovery/pkg/utils"
)

// Anchor text that marks a page worth visiting as a further hub.
var hubTerms = []string{
	"archive", "library", "downloads", "reports", "resources", "performance",
}

// External PDFs (brand CDNs) survive the same-site rule only above this
// score; everything else off the registrable domain is dropped.
const externalKeepScore = pdfBonus + 1

// CrawlConfig bounds one crawl run.
type CrawlConfig struct {
	MaxHubPages   int
	MaxDepth      int
	MaxCandidates int
}

// CrawlOutcome is what one bounded BFS run produced.
type CrawlOutcome struct {
	Candidates  []entity.LinkCandidate
	HubsVisited int
	Degraded    bool // a page was lost to fetch/render failure
}

// frontier is the BFS state owned by exactly one crawl run.
type frontier struct {
	queue   []frontierEntry
	visited map[string]bool
}

type frontierEntry struct {
	url   string
	depth int
}

// push enqueues a URL at most once per run.
func (f *frontier) push(url string, depth int) {
	if f.visited[url] {
		return
	}
	f.visited[url] = true
	f.queue = append(f.queue, frontierEntry{url: url, depth: depth})
}

func (f *frontier) pop() (frontierEntry, bool) {
	if len(f.queue) == 0 {
		return frontierEntry{}, false
	}
	e := f.queue[0]
	f.queue = f.queue[1:]
	return e, true
}

// Crawler performs the bounded breadth-first traversal from a hub URL,
// static fetch first with escalation to the rendering fetcher on blocking
// signals. The crawl loop is sequential: candidate order must follow
// document order, and the hub and depth caps are order-dependent.
type Crawler struct {
	static    repository.Fetcher
	rendering repository.Fetcher
	cfg       CrawlConfig
}

func NewCrawler(static, rendering repository.Fetcher, cfg CrawlConfig) *Crawler {
	return &Crawler{static: static, rendering: rendering, cfg: cfg}
}

// Crawl walks outward from entryURL and returns every anchor that classified
// above zero. It terminates when the frontier drains, the hub-page cap is
// reached, or the candidate cap is reached, whichever happens first.
func (c *Crawler) Crawl(ctx context.Context, entryURL string) CrawlOutcome {
	outcome := CrawlOutcome{}
	entryDomain := utils.RegistrableDomain(entryURL)
	seen := map[string]bool{} // candidate URLs already recorded this run

	f := &frontier{visited: map[string]bool{}}
	f.push(entryURL, 0)

	for outcome.HubsVisited < c.cfg.MaxHubPages {
		entry, ok := f.pop()
		if !ok {
			break
		}

		page, err := c.fetchWithEscalation(ctx, entry.url, entry.depth)
		if err != nil {
			slog.Warn("page dropped from frontier", "url", entry.url, "error", err)
			outcome.Degraded = true
			continue
		}
		outcome.HubsVisited++

		for _, html := range append([]string{page.HTML}, page.FrameHTML...) {
			anchors, err := extractAnchors(page.URL, html)
			if err != nil {
				slog.Warn("unparsable document", "url", page.URL, "error", err)
				continue
			}

			for _, a := range anchors {
				score := Classify(a.RawText, a.URL)

				sameSite := utils.RegistrableDomain(a.URL) == entryDomain
				if !sameSite && !(score >= externalKeepScore && utils.IsPDFURL(a.URL)) {
					continue
				}

				if score > 0 && !seen[a.URL] {
					seen[a.URL] = true
					outcome.Candidates = append(outcome.Candidates, entity.LinkCandidate{
						URL:     a.URL,
						RawText: a.RawText,
						Title:   SynthesizeTitle(a.Signals),
						Score:   score,
						Depth:   entry.depth,
					})
					if len(outcome.Candidates) >= c.cfg.MaxCandidates {
						return outcome
					}
				}

				if sameSite && entry.depth < c.cfg.MaxDepth && isHubLink(a.RawText) {
					f.push(a.URL, entry.depth+1)
				}
			}
		}
	}
	return outcome
}

// fetchWithEscalation tries the static fetcher first and escalates one URL
// to the rendering fetcher on a blocking status, or when a page that should
// carry ESG content yields no usable anchors.
func (c *Crawler) fetchWithEscalation(ctx context.Context, url string, depth int) (*entity.Page, error) {
	page, err := c.static.Fetch(ctx, url)
	switch {
	case errors.Is(err, repository.ErrFetchBlocked):
		slog.Info("static fetch blocked, escalating to browser", "url", url)
	case err != nil:
		return nil, err
	default:
		metrics.CrawlPagesTotal.WithLabelValues("static").Inc()
		if !shouldEscalateEmpty(page, url, depth) {
			return page, nil
		}
		slog.Info("no usable anchors on expected ESG page, escalating", "url", url)
	}

	rendered, rerr := c.rendering.Fetch(ctx, url)
	if rerr != nil {
		if page != nil {
			// Keep the static page rather than lose it entirely.
			return page, nil
		}
		return nil, rerr
	}
	metrics.CrawlPagesTotal.WithLabelValues("rendered").Inc()
	return rendered, nil
}

// shouldEscalateEmpty reports whether a successfully fetched page still
// warrants rendering: zero anchors survived normalization on the entry page
// itself, or on a page whose URL advertises ESG content.
func shouldEscalateEmpty(page *entity.Page, url string, depth int) bool {
	anchors, err := extractAnchors(page.URL, page.HTML)
	if err == nil && len(anchors) > 0 {
		return false
	}
	if depth == 0 {
		return true
	}
	lower := strings.ToLower(url)
	return containsAny(lower, subjectTerms)
}

func isHubLink(text string) bool {
	return containsAny(strings.ToLower(text), hubTerms)
}
