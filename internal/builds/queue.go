package builds

import (
	"context"
	"fmt"

	platformredis "github.com/loamlabs/wheelhouse/internal/platform/redis"
)

// queueKey is the redis list holding serialized builds between runs. It is
// the only cross-run shared mutable state in the system.
const queueKey = "abandoned_builds"

// Queue is the durable event queue port. Exactly three operations are
// consumed: append one serialized event, read everything, delete everything.
//
// There is no lock around read/delete: two overlapping scheduled runs can
// race on drain. Accepted limitation; the scheduler fires once per window.
type Queue interface {
	Append(ctx context.Context, payload []byte) error
	// ReadAll returns every queued payload without removing them, in
	// whatever order the store yields.
	ReadAll(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) error
}

// RedisQueue keeps the queue in a redis list, newest first.
type RedisQueue struct {
	client *platformredis.Client
}

// NewRedisQueue wraps the shared redis client as the build queue.
func NewRedisQueue(client *platformredis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// Append pushes one serialized build onto the queue.
func (q *RedisQueue) Append(ctx context.Context, payload []byte) error {
	if err := q.client.LPush(ctx, queueKey, payload).Err(); err != nil {
		return fmt.Errorf("append build: %w", err)
	}
	return nil
}

// ReadAll returns the full queue contents without removing them.
func (q *RedisQueue) ReadAll(ctx context.Context) ([]string, error) {
	entries, err := q.client.LRange(ctx, queueKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	return entries, nil
}

// DeleteAll clears the queue in one call.
func (q *RedisQueue) DeleteAll(ctx context.Context) error {
	if err := q.client.Del(ctx, queueKey).Err(); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// Health reports whether the backing store is reachable.
func (q *RedisQueue) Health(ctx context.Context) error {
	return q.client.Health(ctx)
}
