package entity

// LinkCandidate is an anchor discovered during crawling. It is created once
// per visited anchor and never mutated; verification either promotes it to a
// VerifiedDocument or discards it.
type LinkCandidate struct {
	URL     string // absolute, normalized: no fragment, no javascript:/mailto:
	RawText string // original anchor text
	Title   string // synthesized human-readable label
	Score   int    // classifier output, > 0 for every recorded candidate
	Depth   int    // crawl distance from the entry URL, 0 = entry page
}

// SearchResult is one title/URL/snippet triple from the search provider.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// Page is the outcome of one fetch, static or rendered.
type Page struct {
	URL        string // effective URL after redirects
	StatusCode int
	HTML       string
	FrameHTML  []string // same-origin iframe documents, rendering fetcher only
	Rendered   bool
}
