package usecase

import (
	"context"
	"fmt"

	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
)

// Library manages the saved-document collection and the curated hub
// overrides.
type Library interface {
	Documents(ctx context.Context) ([]entity.VerifiedDocument, error)
	DeleteDocument(ctx context.Context, url string) error
	UpsertHubOverride(ctx context.Context, organization, url string) error
}

type libraryUseCase struct {
	documentRepo repository.DocumentRepository
	overrideRepo repository.HubOverrideRepository
}

// NewLibrary creates the library use case.
func NewLibrary(documentRepo repository.DocumentRepository, overrideRepo repository.HubOverrideRepository) Library {
	return &libraryUseCase{documentRepo: documentRepo, overrideRepo: overrideRepo}
}

func (uc *libraryUseCase) Documents(ctx context.Context) ([]entity.VerifiedDocument, error) {
	return uc.documentRepo.FindAll(ctx)
}

func (uc *libraryUseCase) DeleteDocument(ctx context.Context, url string) error {
	if err := uc.documentRepo.DeleteByURL(ctx, url); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", url, err)
	}
	return nil
}

func (uc *libraryUseCase) UpsertHubOverride(ctx context.Context, organization, url string) error {
	if err := uc.overrideRepo.Upsert(ctx, organization, url); err != nil {
		return fmt.Errorf("failed to upsert hub override for %q: %w", organization, err)
	}
	return nil
}
