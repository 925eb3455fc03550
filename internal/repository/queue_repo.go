package repository

import (
	"context"
	"time"

	"github.com/user/esg-discovery/internal/entity"
)

// QueueRepository is the FIFO queue of pending discovery jobs.
type QueueRepository interface {
	// Push adds a job to the end of the queue.
	Push(ctx context.Context, query entity.OrganizationQuery) error
	// Pop removes and returns the job at the front of the queue.
	Pop(ctx context.Context) (entity.OrganizationQuery, error)
	// Size returns the current number of queued jobs.
	Size(ctx context.Context) (int64, error)
}

// JobStatusRepository deduplicates discovery requests across runs and
// exposes per-organization job state.
type JobStatusRepository interface {
	// MarkStatus records the job state for an organization with an expiry.
	MarkStatus(ctx context.Context, organization, status string, expiry time.Duration) error
	// Status returns the recorded state, or "" when none is recorded.
	Status(ctx context.Context, organization string) (string, error)
	// Clear removes the recorded state, used for forced re-discovery.
	Clear(ctx context.Context, organization string) error
}
