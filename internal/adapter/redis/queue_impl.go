package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/user/esg-discovery/internal/entity"
)

const discoveryQueueKey = "discovery:queue"

// QueueRepoImpl implements repository.QueueRepository using a Redis list.
// Jobs are JSON-encoded OrganizationQuery values.
type QueueRepoImpl struct {
	client *redis.Client
}

func NewQueueRepo(client *redis.Client) *QueueRepoImpl {
	return &QueueRepoImpl{client: client}
}

// Push adds a job to the left side of the list (acting as a queue).
func (r *QueueRepoImpl) Push(ctx context.Context, query entity.OrganizationQuery) error {
	payload, err := json.Marshal(query)
	if err != nil {
		return err
	}
	return r.client.LPush(ctx, discoveryQueueKey, payload).Err()
}

// Pop removes and returns a job from the right side of the list. Returns
// redis.Nil when the queue is empty.
func (r *QueueRepoImpl) Pop(ctx context.Context) (entity.OrganizationQuery, error) {
	var query entity.OrganizationQuery
	payload, err := r.client.RPop(ctx, discoveryQueueKey).Result()
	if err != nil {
		return query, err
	}
	err = json.Unmarshal([]byte(payload), &query)
	return query, err
}

// Size returns the current number of queued jobs.
func (r *QueueRepoImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, discoveryQueueKey).Result()
}
