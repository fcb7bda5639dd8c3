package database

import (
	"context"
	"log"
	"time"

	"roomhive/config"

	"github.com/go-redis/redis/v8"
)

// LimiterClient is the dedicated client for rate-limit counters.
var LimiterClient *redis.Client

// InitLimiterCache initializes the Redis client backing the shared rate limiter.
func InitLimiterCache() {
	LimiterClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLimiterDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LimiterClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Limiter): %v", err)
	}
}

// GetLimiterClient returns the Redis client for rate-limit counters.
func GetLimiterClient() *redis.Client {
	if LimiterClient == nil {
		InitLimiterCache()
	}
	return LimiterClient
}
