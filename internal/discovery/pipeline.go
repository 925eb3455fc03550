package discovery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
	"github.com/user/esg-discovery/pkg/metrics"
	"github.com/user/esg-discovery/pkg/utils"
)

const (
	directSearchResults = 15
	cdpSearchResults    = 10
	maxSearchCandidates = 10
)

// Pipeline wires the discovery stages: resolve -> crawl -> search
// strategies -> verify -> aggregate. No stage failure aborts a run; each
// degrades to "produced nothing" and is noted in the result.
type Pipeline struct {
	resolver   *Resolver
	crawler    *Crawler
	verifier   *Verifier
	search     repository.SearchProvider
	maxResults int
}

func NewPipeline(resolver *Resolver, crawler *Crawler, verifier *Verifier, search repository.SearchProvider, maxResults int) *Pipeline {
	return &Pipeline{
		resolver:   resolver,
		crawler:    crawler,
		verifier:   verifier,
		search:     search,
		maxResults: maxResults,
	}
}

// Run executes one full discovery for an organization. An empty result is a
// valid terminal state ("nothing found"), distinct from a missing hub.
func (p *Pipeline) Run(ctx context.Context, query entity.OrganizationQuery) entity.DiscoveryResult {
	start := time.Now()
	defer func() {
		metrics.DiscoveryDuration.Observe(time.Since(start).Seconds())
	}()

	resolution := p.resolver.Resolve(ctx, query)
	result := entity.DiscoveryResult{
		Query:          query,
		Hub:            resolution.Hub,
		DegradedStages: resolution.Degraded,
	}

	// Strategy 1: crawl outward from the hub.
	var hubDocs []entity.VerifiedDocument
	if resolution.Hub.Confidence != entity.ConfidenceNone {
		outcome := p.crawler.Crawl(ctx, resolution.Hub.URL)
		if outcome.Degraded {
			result.DegradedStages = append(result.DegradedStages, "hub_crawl")
		}
		slog.Info("hub crawl finished",
			"organization", query.Name,
			"hub", resolution.Hub.URL,
			"pages", outcome.HubsVisited,
			"candidates", len(outcome.Candidates),
		)
		hubDocs = p.verifier.VerifyAll(ctx, outcome.Candidates, query, entity.StrategyHubCrawl)
	}

	// Strategy 2: direct report search, scoped to the official domain when
	// one is known.
	directDocs := p.runSearchStrategy(ctx, query, &result,
		entity.StrategyDirectSearch, p.directQuery(query, resolution), directSearchResults, nil)

	// Strategy 3: CDP climate questionnaires. Hosted off-domain as a rule,
	// so the query is never domain-scoped and results are title-filtered.
	cdpDocs := p.runSearchStrategy(ctx, query, &result,
		entity.StrategyCDPSearch, query.Name+" CDP climate change questionnaire pdf", cdpSearchResults, isCDPResult)

	result.Documents = Aggregate(
		[][]entity.VerifiedDocument{hubDocs, directDocs, cdpDocs},
		p.maxResults,
	)
	return result
}

func (p *Pipeline) directQuery(query entity.OrganizationQuery, resolution Resolution) string {
	if resolution.OfficialDomain != "" {
		return "site:" + resolution.OfficialDomain + " ESG sustainability report pdf"
	}
	return query.Name + " ESG sustainability report pdf"
}

// runSearchStrategy turns PDF search results into candidates and verifies
// them. keep, when non-nil, additionally filters results by title.
func (p *Pipeline) runSearchStrategy(ctx context.Context, query entity.OrganizationQuery, result *entity.DiscoveryResult, strategy, searchQuery string, maxResults int, keep func(entity.SearchResult) bool) []entity.VerifiedDocument {
	results, err := p.search.Search(ctx, searchQuery, maxResults)
	if err != nil {
		metrics.SearchCallsTotal.WithLabelValues("error").Inc()
		slog.Warn("search strategy degraded", "strategy", strategy, "error", err)
		result.DegradedStages = append(result.DegradedStages, strategy)
		return nil
	}
	metrics.SearchCallsTotal.WithLabelValues("success").Inc()

	var candidates []entity.LinkCandidate
	for _, sr := range results {
		if !utils.IsPDFURL(sr.URL) {
			continue
		}
		if keep != nil && !keep(sr) {
			continue
		}
		title := strings.TrimSpace(sr.Title)
		if title == "" {
			title = SynthesizeTitle(TitleSignals{URL: sr.URL})
		}
		candidates = append(candidates, entity.LinkCandidate{
			URL:     sr.URL,
			RawText: sr.Title,
			Title:   title,
			Score:   Classify(sr.Title, sr.URL),
		})
		if len(candidates) >= maxSearchCandidates {
			break
		}
	}
	return p.verifier.VerifyAll(ctx, candidates, query, strategy)
}

func isCDPResult(sr entity.SearchResult) bool {
	lower := strings.ToLower(sr.Title)
	return strings.Contains(lower, "cdp") ||
		strings.Contains(lower, "climate change") ||
		strings.Contains(lower, "questionnaire")
}
