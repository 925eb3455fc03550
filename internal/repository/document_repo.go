package repository

import (
	"context"

	"github.com/user/esg-discovery/internal/entity"
)

// DocumentRepository stores verified documents keyed by URL.
type DocumentRepository interface {
	// Save upserts a document. On URL conflict metadata fields are overwritten.
	Save(ctx context.Context, doc *entity.VerifiedDocument) error
	// FindByOrganization returns stored documents for one organization,
	// most recent inferred year first.
	FindByOrganization(ctx context.Context, organization string) ([]entity.VerifiedDocument, error)
	// FindAll returns every stored document.
	FindAll(ctx context.Context) ([]entity.VerifiedDocument, error)
	// DeleteByURL removes one document.
	DeleteByURL(ctx context.Context, url string) error
}

// HubOverrideRepository holds the curated organization -> hub URL mapping.
// The mapping is read once per discovery run and matched in memory.
type HubOverrideRepository interface {
	Upsert(ctx context.Context, organization, url string) error
	FindAll(ctx context.Context) (map[string]string, error)
}
