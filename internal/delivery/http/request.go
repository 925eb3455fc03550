package http

// SubmitDiscoveryRequest is the body of POST /api/discover.
type SubmitDiscoveryRequest struct {
	Organization string `json:"organization"`
	Ticker       string `json:"ticker,omitempty"`
	EntryURL     string `json:"entry_url,omitempty"`
	Force        bool   `json:"force,omitempty"`
}

// UpsertHubRequest is the body of PUT /api/hubs.
type UpsertHubRequest struct {
	Organization string `json:"organization"`
	URL          string `json:"url"`
}
