package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
	"github.com/user/esg-discovery/pkg/metrics"
)

var (
	ErrRecentlyDiscovered = errors.New("organization was discovered recently and force is false")
)

// Job states recorded per organization.
const (
	StatusPending     = "pending"
	StatusRunning     = "running"
	StatusCompleted   = "completed"
	StatusNoHub       = "no_hub"
	StatusNoDocuments = "no_documents"
)

// DiscoveryManager is the interface for submitting and inspecting
// discovery jobs.
type DiscoveryManager interface {
	Submit(ctx context.Context, query entity.OrganizationQuery, force bool) error
	Status(ctx context.Context, organization string) (string, error)
	Results(ctx context.Context, organization string) ([]entity.VerifiedDocument, error)
}

type discoveryManagerUseCase struct {
	queueRepo     repository.QueueRepository
	jobStatusRepo repository.JobStatusRepository
	documentRepo  repository.DocumentRepository
	statusExpiry  time.Duration
}

// NewDiscoveryManager creates a new DiscoveryManager use case.
func NewDiscoveryManager(
	queueRepo repository.QueueRepository,
	jobStatusRepo repository.JobStatusRepository,
	documentRepo repository.DocumentRepository,
	statusExpiry time.Duration,
) DiscoveryManager {
	return &discoveryManagerUseCase{
		queueRepo:     queueRepo,
		jobStatusRepo: jobStatusRepo,
		documentRepo:  documentRepo,
		statusExpiry:  statusExpiry,
	}
}

// Submit enqueues a discovery job unless one ran recently for the same
// organization. force clears the recency gate first.
func (uc *discoveryManagerUseCase) Submit(ctx context.Context, query entity.OrganizationQuery, force bool) error {
	status, err := uc.jobStatusRepo.Status(ctx, query.Name)
	if err != nil {
		return fmt.Errorf("failed to check job status for %q: %w", query.Name, err)
	}
	if status != "" {
		if !force {
			return ErrRecentlyDiscovered
		}
		if err := uc.jobStatusRepo.Clear(ctx, query.Name); err != nil {
			return fmt.Errorf("failed to clear job status for %q: %w", query.Name, err)
		}
	}

	if err := uc.queueRepo.Push(ctx, query); err != nil {
		return fmt.Errorf("failed to enqueue discovery job for %q: %w", query.Name, err)
	}
	if err := uc.jobStatusRepo.MarkStatus(ctx, query.Name, StatusPending, uc.statusExpiry); err != nil {
		slog.Warn("failed to mark job pending", "organization", query.Name, "error", err)
	}

	if size, err := uc.queueRepo.Size(ctx); err == nil {
		metrics.JobsInQueue.Set(float64(size))
	}
	return nil
}

// Status returns the recorded job state for an organization, or "" when no
// job is known.
func (uc *discoveryManagerUseCase) Status(ctx context.Context, organization string) (string, error) {
	return uc.jobStatusRepo.Status(ctx, organization)
}

// Results returns the stored documents for an organization.
func (uc *discoveryManagerUseCase) Results(ctx context.Context, organization string) ([]entity.VerifiedDocument, error) {
	return uc.documentRepo.FindByOrganization(ctx, organization)
}
