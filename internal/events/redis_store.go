package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = 72 * time.Hour

// RedisProcessedStore is a TTL-bound dedup store for deployments without
// Postgres. Entries expire, so it only guards against redelivery within the
// TTL window rather than forever.
type RedisProcessedStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProcessedStore(client *redis.Client, ttl time.Duration) *RedisProcessedStore {
	if client == nil {
		panic("events: redis client required")
	}
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &RedisProcessedStore{client: client, ttl: ttl}
}

func dedupKey(provider, messageID string) string {
	return fmt.Sprintf("dedup:%s:%s", provider, messageID)
}

// AlreadyProcessed checks whether the message id is still within its dedup
// window.
func (s *RedisProcessedStore) AlreadyProcessed(ctx context.Context, provider, messageID string) (bool, error) {
	n, err := s.client.Exists(ctx, dedupKey(provider, messageID)).Result()
	if err != nil {
		return false, fmt.Errorf("events: check processed: %w", err)
	}
	return n > 0, nil
}

// MarkProcessed sets the dedup key if absent, returning false when another
// handler got there first.
func (s *RedisProcessedStore) MarkProcessed(ctx context.Context, provider, messageID string) (bool, error) {
	ok, err := s.client.SetNX(ctx, dedupKey(provider, messageID), 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return ok, nil
}
