package discovery

import (
	"context"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
	"github.com/user/esg-discovery/pkg/metrics"
	"github.com/user/esg-discovery/pkg/utils"
)

// Domains that can never be an organization's own site: encyclopedias,
// newswires, financial-data aggregators.
var blockedDomains = []string{
	"wikipedia.org", "bloomberg.com", "reuters.com", "yahoo.com",
	"wsj.com", "cnbc.com", "forbes.com", "investopedia.com",
	"morningstar.com", "marketwatch.com", "motleyfool.com",
	"seekingalpha.com", "barrons.com",
}

// Search-engine redirect hosts that sometimes leak into results.
var searchEngineDomains = []string{
	"duckduckgo.com", "google.com", "bing.com",
}

const fuzzyMatchCutoff = 0.6

// Resolution is the resolver's full output. OfficialDomain is carried
// separately because later strategies scope their queries to it even when
// the hub came from an override.
type Resolution struct {
	Hub            entity.HubResolution
	OfficialDomain string
	Degraded       []string
}

// Resolver determines the canonical ESG hub URL for an organization using a
// waterfall of strategies, each tried only when the previous produced
// nothing.
type Resolver struct {
	search    repository.SearchProvider
	overrides repository.HubOverrideRepository
}

func NewResolver(search repository.SearchProvider, overrides repository.HubOverrideRepository) *Resolver {
	return &Resolver{search: search, overrides: overrides}
}

// Resolve runs the waterfall. A fully empty outcome (ConfidenceNone) is a
// valid terminal state, not an error; search-provider failures degrade to
// "no results" for their step.
func (r *Resolver) Resolve(ctx context.Context, query entity.OrganizationQuery) Resolution {
	res := Resolution{Hub: entity.HubResolution{Confidence: entity.ConfidenceNone}}

	// Step 1: known-entry override. Trusted without a network call.
	if hub := r.knownEntry(ctx, query); hub != "" {
		res.Hub = entity.HubResolution{
			URL:        hub,
			Title:      query.Name + " Sustainability Hub",
			Confidence: entity.ConfidenceKnown,
		}
		res.OfficialDomain = utils.Domain(hub)
		return res
	}

	// Step 2: official-domain discovery.
	homepage := r.discoverOfficialSite(ctx, query, &res)
	if homepage != "" {
		res.OfficialDomain = utils.Domain(homepage)
	}

	// Step 3: ESG-site discovery, scoped to the domain when one is known.
	if hub := r.discoverESGSite(ctx, query, &res); hub != "" {
		res.Hub = entity.HubResolution{
			URL:        hub,
			Title:      query.Name + " ESG / Sustainability",
			Confidence: entity.ConfidenceDiscovered,
		}
		return res
	}

	// Step 4: homepage fallback, unverified for ESG-specific content.
	if homepage != "" {
		res.Hub = entity.HubResolution{
			URL:        homepage,
			Title:      query.Name + " Corporate Site (unverified)",
			Confidence: entity.ConfidenceHomepageFallback,
		}
	}
	return res
}

// knownEntry returns the caller-supplied entry URL or a curated override
// matched exactly (case-folded) or fuzzily against the organization name.
func (r *Resolver) knownEntry(ctx context.Context, query entity.OrganizationQuery) string {
	if query.EntryURL != "" {
		return query.EntryURL
	}

	overrides, err := r.overrides.FindAll(ctx)
	if err != nil {
		slog.Warn("hub override lookup failed", "organization", query.Name, "error", err)
		return ""
	}

	name := strings.ToLower(strings.TrimSpace(query.Name))
	if url, ok := overrides[name]; ok {
		return url
	}

	bestScore := 0.0
	bestURL := ""
	for curated, url := range overrides {
		if s := similarity(name, curated); s >= fuzzyMatchCutoff && s > bestScore {
			bestScore = s
			bestURL = url
		}
	}
	if bestURL != "" {
		slog.Info("fuzzy hub override match", "organization", query.Name, "similarity", bestScore)
	}
	return bestURL
}

func (r *Resolver) discoverOfficialSite(ctx context.Context, query entity.OrganizationQuery, res *Resolution) string {
	results, err := r.doSearch(ctx, query.Name+" official corporate website", 5)
	if err != nil {
		res.Degraded = append(res.Degraded, "domain_discovery")
		return ""
	}

	tokens := query.NameTokens()
	firstToken := ""
	if len(tokens) > 0 {
		firstToken = tokens[0]
	}

	for _, sr := range results {
		if utils.IsPDFURL(sr.URL) || isBlockedDomain(sr.URL) {
			continue
		}
		domain := utils.Domain(sr.URL)
		if !tokenInDomain(tokens, domain) {
			continue
		}
		if firstToken != "" && !strings.Contains(strings.ToLower(sr.Title), firstToken) {
			continue
		}
		return sr.URL
	}
	return ""
}

func (r *Resolver) discoverESGSite(ctx context.Context, query entity.OrganizationQuery, res *Resolution) string {
	q := query.Name + " official ESG sustainability website"
	if res.OfficialDomain != "" {
		q = "site:" + res.OfficialDomain + " ESG sustainability"
	}

	results, err := r.doSearch(ctx, q, 10)
	if err != nil {
		res.Degraded = append(res.Degraded, "esg_site_discovery")
		return ""
	}

	for _, sr := range results {
		if utils.IsPDFURL(sr.URL) || isBlockedDomain(sr.URL) || isSearchEngineDomain(sr.URL) {
			continue
		}
		// Without a known official domain the blocklist is the only guard,
		// so keep the first clean result either way.
		return sr.URL
	}
	return ""
}

func (r *Resolver) doSearch(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error) {
	results, err := r.search.Search(ctx, query, maxResults)
	if err != nil {
		metrics.SearchCallsTotal.WithLabelValues("error").Inc()
		slog.Warn("search provider failed, step degrades to empty", "query", query, "error", err)
		return nil, err
	}
	metrics.SearchCallsTotal.WithLabelValues("success").Inc()
	return results, nil
}

func isBlockedDomain(rawURL string) bool {
	domain := utils.Domain(rawURL)
	for _, b := range blockedDomains {
		if strings.HasSuffix(domain, b) {
			return true
		}
	}
	return false
}

func isSearchEngineDomain(rawURL string) bool {
	domain := utils.Domain(rawURL)
	for _, b := range searchEngineDomains {
		if strings.HasSuffix(domain, b) {
			return true
		}
	}
	return false
}

func tokenInDomain(tokens []string, domain string) bool {
	for _, tok := range tokens {
		if strings.Contains(domain, tok) {
			return true
		}
	}
	return false
}

// similarity is a normalized Levenshtein ratio in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
