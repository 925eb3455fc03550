package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/esg-discovery/pkg/utils"
)

const jobStatusPrefix = "discovery:status:"

// JobStatusRepoImpl implements repository.JobStatusRepository with expiring
// Redis keys. The key is a hash of the case-folded organization name.
type JobStatusRepoImpl struct {
	client *redis.Client
}

func NewJobStatusRepo(client *redis.Client) *JobStatusRepoImpl {
	return &JobStatusRepoImpl{client: client}
}

func (r *JobStatusRepoImpl) key(organization string) string {
	return fmt.Sprintf("%s%s", jobStatusPrefix, utils.HashKey(strings.ToLower(strings.TrimSpace(organization))))
}

// MarkStatus records the job state for an organization with an expiry.
func (r *JobStatusRepoImpl) MarkStatus(ctx context.Context, organization, status string, expiry time.Duration) error {
	return r.client.SetEx(ctx, r.key(organization), status, expiry).Err()
}

// Status returns the recorded state, or "" when nothing is recorded.
func (r *JobStatusRepoImpl) Status(ctx context.Context, organization string) (string, error) {
	val, err := r.client.Get(ctx, r.key(organization)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Clear removes the recorded state, used for forced re-discovery.
func (r *JobStatusRepoImpl) Clear(ctx context.Context, organization string) error {
	return r.client.Del(ctx, r.key(organization)).Err()
}
