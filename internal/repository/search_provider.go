package repository

import (
	"context"
	"errors"

	"github.com/user/esg-discovery/internal/entity"
)

// ErrSearchUnavailable signals a failed or malformed search-provider
// response. Callers treat it as zero results, never as fatal.
var ErrSearchUnavailable = errors.New("search provider unavailable")

// SearchProvider is the keyword search consumed by the hub resolver and the
// direct-search strategy.
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]entity.SearchResult, error)
}
