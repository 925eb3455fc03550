package response

import "time"

type SubmitDiscoveryResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Organization string `json:"organization"`
}

type JobStatusResponse struct {
	Organization string `json:"organization"`
	Status       string `json:"status"`
}

// DocumentResponse is a DTO for verified documents and hub records.
type DocumentResponse struct {
	Organization   string    `json:"organization"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Summary        string    `json:"summary"`
	SourceStrategy string    `json:"source_strategy"`
	InferredYear   int       `json:"inferred_year,omitempty"`
	DiscoveredAt   time.Time `json:"discovered_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
}
