package result

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finflow/internal/job"
)

const keyPrefix = "ingest:result:"

// RedisStore keeps one JSON-encoded job.Update per job under an expiring
// string key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedis creates a result store with the given entry TTL.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Publish(ctx context.Context, u job.Update) error {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+u.JobID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("publish update: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, jobID string) (*job.Update, bool, error) {
	payload, err := s.client.Get(ctx, keyPrefix+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read update: %w", err)
	}
	var u job.Update
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil, false, fmt.Errorf("decode update: %w", err)
	}
	return &u, true, nil
}
