package entity

import "time"

// Discovery strategies, in trust order. Lower value wins on URL collisions.
const (
	StrategyHubCrawl     = "hub_crawl"
	StrategyDirectSearch = "direct_search"
	StrategyCDPSearch    = "cdp_search"
)

// HubConfidence says how the hub URL was obtained.
type HubConfidence string

const (
	ConfidenceKnown            HubConfidence = "known"
	ConfidenceDiscovered       HubConfidence = "discovered"
	ConfidenceHomepageFallback HubConfidence = "homepage_fallback"
	ConfidenceNone             HubConfidence = "none"
)

// HubResolution is the Hub Resolver's output. URL is empty iff Confidence is
// ConfidenceNone, which is a valid terminal state rather than an error.
type HubResolution struct {
	URL        string
	Title      string
	Confidence HubConfidence
}

// VerifiedDocument is a disclosure document that passed content verification.
// Equality is by URL. Mirrors the `documents` PostgreSQL table.
type VerifiedDocument struct {
	ID             int64
	Organization   string
	Title          string
	URL            string
	Summary        string // provenance, e.g. "Verified PDF Report"
	SourceStrategy string
	InferredYear   int // 0 when no year could be inferred
	DiscoveredAt   time.Time
}

// DiscoveryResult is the aggregated, ordered output of one discovery run.
type DiscoveryResult struct {
	Query          OrganizationQuery
	Hub            HubResolution
	Documents      []VerifiedDocument
	DegradedStages []string // stages that recovered from a failure, for diagnostics
}
