package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/esg-discovery/internal/discovery"
	"github.com/user/esg-discovery/internal/entity"
	"github.com/user/esg-discovery/internal/repository"
	"github.com/user/esg-discovery/pkg/metrics"
)

// The hub record is stored alongside the documents so result listings can
// lead with it.
const hubStrategy = "hub_resolution"

// DiscoveryWorker drains the job queue and runs the pipeline.
type DiscoveryWorker interface {
	ProcessJobFromQueue(ctx context.Context) error
}

type discoveryWorkerUseCase struct {
	queueRepo     repository.QueueRepository
	jobStatusRepo repository.JobStatusRepository
	documentRepo  repository.DocumentRepository
	pipeline      *discovery.Pipeline
	statusExpiry  time.Duration
}

// NewDiscoveryWorker creates the worker use case.
func NewDiscoveryWorker(
	queueRepo repository.QueueRepository,
	jobStatusRepo repository.JobStatusRepository,
	documentRepo repository.DocumentRepository,
	pipeline *discovery.Pipeline,
	statusExpiry time.Duration,
) DiscoveryWorker {
	return &discoveryWorkerUseCase{
		queueRepo:     queueRepo,
		jobStatusRepo: jobStatusRepo,
		documentRepo:  documentRepo,
		pipeline:      pipeline,
		statusExpiry:  statusExpiry,
	}
}

// ProcessJobFromQueue pops a single discovery job and runs it end to end.
// An empty queue is a normal state, not an error.
func (uc *discoveryWorkerUseCase) ProcessJobFromQueue(ctx context.Context) error {
	query, err := uc.queueRepo.Pop(ctx)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to pop discovery job: %w", err)
	}

	slog.Info("processing discovery job", "organization", query.Name)
	uc.markStatus(ctx, query.Name, StatusRunning)

	startTime := time.Now()
	result := uc.pipeline.Run(ctx, query)
	duration := time.Since(startTime)

	status := uc.persistResult(ctx, result)
	uc.markStatus(ctx, query.Name, status)
	metrics.DiscoveriesTotal.WithLabelValues(status).Inc()

	if size, err := uc.queueRepo.Size(ctx); err == nil {
		metrics.JobsInQueue.Set(float64(size))
	}

	slog.Info("discovery job finished",
		"organization", query.Name,
		"status", status,
		"hub_confidence", string(result.Hub.Confidence),
		"documents", len(result.Documents),
		"degraded_stages", result.DegradedStages,
		"duration_ms", duration.Milliseconds(),
	)
	return nil
}

// persistResult upserts the hub record and every verified document, and
// derives the terminal job status.
func (uc *discoveryWorkerUseCase) persistResult(ctx context.Context, result entity.DiscoveryResult) string {
	now := time.Now()

	if result.Hub.Confidence != entity.ConfidenceNone {
		hubDoc := &entity.VerifiedDocument{
			Organization:   result.Query.Name,
			Title:          result.Hub.Title,
			URL:            result.Hub.URL,
			Summary:        "Sustainability Hub (" + string(result.Hub.Confidence) + ")",
			SourceStrategy: hubStrategy,
			DiscoveredAt:   now,
		}
		if err := uc.documentRepo.Save(ctx, hubDoc); err != nil {
			slog.Error("failed to save hub record", "url", result.Hub.URL, "error", err)
		}
	}

	for i := range result.Documents {
		doc := result.Documents[i]
		doc.DiscoveredAt = now
		if err := uc.documentRepo.Save(ctx, &doc); err != nil {
			slog.Error("failed to save document", "url", doc.URL, "error", err)
		}
	}

	switch {
	case result.Hub.Confidence == entity.ConfidenceNone && len(result.Documents) == 0:
		return StatusNoHub
	case len(result.Documents) == 0:
		return StatusNoDocuments
	default:
		return StatusCompleted
	}
}

func (uc *discoveryWorkerUseCase) markStatus(ctx context.Context, organization, status string) {
	if err := uc.jobStatusRepo.MarkStatus(ctx, organization, status, uc.statusExpiry); err != nil {
		slog.Warn("failed to record job status", "organization", organization, "status", status, "error", err)
	}
}
