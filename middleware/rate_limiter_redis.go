package middleware

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisRateStore is a RateStore backed by a shared Redis instance, for
// deployments that need one quota across replicas. Counter keys carry the
// window TTL, so expiry doubles as eviction.
type RedisRateStore struct {
	client *redis.Client
}

// NewRedisRateStore creates a Redis-backed fixed-window store.
func NewRedisRateStore(client *redis.Client) *RedisRateStore {
	return &RedisRateStore{client: client}
}

// Admit increments the window counter atomically; the first increment opens
// the window by setting the key TTL.
func (s *RedisRateStore) Admit(ctx context.Context, key string, policy RatePolicy) (bool, error) {
	counterKey := "rate:" + key

	n, err := s.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate counter incr failed: %w", err)
	}
	if n == 1 {
		if err := s.client.Expire(ctx, counterKey, policy.Window).Err(); err != nil {
			return false, fmt.Errorf("rate counter expire failed: %w", err)
		}
	}
	return n <= int64(policy.MaxRequests), nil
}
