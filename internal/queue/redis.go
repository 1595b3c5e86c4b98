package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finflow/internal/job"
)

// blockInterval bounds each BRPOP so Dequeue can observe context
// cancellation between polls.
const blockInterval = 5 * time.Second

// RedisQueue is a durable job queue backed by a Redis list. Producers LPUSH
// JSON-encoded job descriptors; each BRPOP delivers a given descriptor to
// exactly one worker.
type RedisQueue struct {
	client *redis.Client
	key    string
}

var _ Queue = (*RedisQueue)(nil)

// NewRedis creates a queue on the given client using key as the list name.
func NewRedis(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, j job.Job) error {
	payload, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (*job.Job, error) {
	for {
		res, err := q.client.BRPop(ctx, blockInterval, q.key).Result()
		if errors.Is(err, redis.ErrClosed) {
			return nil, ErrClosed
		}
		if errors.Is(err, redis.Nil) {
			// Timed out with nothing queued; check for cancellation and
			// block again.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("pop job: %w", err)
		}

		// BRPop returns [key, value].
		var j job.Job
		if err := json.Unmarshal([]byte(res[1]), &j); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		return &j, nil
	}
}
