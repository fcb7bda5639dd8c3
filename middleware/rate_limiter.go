package middleware

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"roomhive/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RatePolicy is a named fixed-window admission policy.
type RatePolicy struct {
	Window      time.Duration
	MaxRequests int
}

// RateStore admits or denies a request under a fixed-window policy. The
// check-and-increment must be atomic per key within one store.
type RateStore interface {
	Admit(ctx context.Context, key string, policy RatePolicy) (bool, error)
}

const rateShardCount = 16

type rateWindow struct {
	count   int
	resetAt time.Time
}

type rateShard struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

// MemoryRateStore is the default in-process RateStore. Quotas are
// per-instance: a deployment running several replicas behind a load balancer
// gets independent windows on each, not a shared global quota.
type MemoryRateStore struct {
	shards [rateShardCount]*rateShard
	now    func() time.Time
}

// NewMemoryRateStore creates an in-memory fixed-window store.
func NewMemoryRateStore() *MemoryRateStore {
	s := &MemoryRateStore{now: time.Now}
	for i := range s.shards {
		s.shards[i] = &rateShard{windows: make(map[string]*rateWindow)}
	}
	return s
}

func (s *MemoryRateStore) shardFor(key string) *rateShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%rateShardCount]
}

// Admit applies fixed-window counting: the first request from a key opens a
// window; requests inside it are admitted while the counter is below the
// policy maximum; an elapsed window resets the key as if first seen. Expired
// keys in the visited shard are swept on the way, bounding memory.
func (s *MemoryRateStore) Admit(_ context.Context, key string, policy RatePolicy) (bool, error) {
	now := s.now()
	shard := s.shardFor(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	for k, w := range shard.windows {
		if k != key && !now.Before(w.resetAt) {
			delete(shard.windows, k)
		}
	}

	w, ok := shard.windows[key]
	if !ok || !now.Before(w.resetAt) {
		shard.windows[key] = &rateWindow{count: 1, resetAt: now.Add(policy.Window)}
		return true, nil
	}
	if w.count >= policy.MaxRequests {
		return false, nil
	}
	w.count++
	return true, nil
}

// RateLimit enforces the named policy per client key on a route group. A
// store error fails open: admission control is a best-effort defense and must
// not take the endpoint down with it.
func RateLimit(store RateStore, name string, policy RatePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + GetClientIP(c)
		ok, err := store.Admit(c.Request.Context(), key, policy)
		if err != nil {
			utils.GetLogger().Warn("rate limiter unavailable, admitting request",
				zap.String("policy", name), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			utils.GetLogger().Warn("Rate limit exceeded",
				zap.String("policy", name), zap.String("key", key))
			utils.RespondError(c, utils.RateLimitedError(
				"Rate limit exceeded",
				"too many requests; try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// --- coarse global limiter ---

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	limiters map[string]*rate.Limiter
	perMin   int
	mu       sync.Mutex
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), s.perMin)
		s.limiters[ip] = limiter
	}
	return limiter
}

// GlobalRateLimit is the coarse per-IP token-bucket limiter applied in front
// of every route; the per-policy fixed-window limiters sit behind it.
func GlobalRateLimit(requestsPerMinute int) gin.HandlerFunc {
	store := &rateLimiterStore{
		limiters: make(map[string]*rate.Limiter),
		perMin:   requestsPerMinute,
	}
	return func(c *gin.Context) {
		ip := GetClientIP(c)
		if !store.getLimiter(ip).Allow() {
			utils.GetLogger().Warn("Rate limit exceeded", zap.String("ip", ip))
			utils.RespondError(c, utils.RateLimitedError(
				"Rate limit exceeded",
				"too many requests; try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}
