// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"courtconnect/config"

	"github.com/go-redis/redis/v8"
)

// ContextCacheClient backs the shared pending booking context store.
var ContextCacheClient *redis.Client

// InitContextCache initializes the Redis client used for assistant context (DB from AppConfig).
func InitContextCache() {
	ContextCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisContextDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ContextCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Context Cache): %v", err)
	}
}

// GetContextCacheClient returns the assistant context cache client.
func GetContextCacheClient() *redis.Client {
	if ContextCacheClient == nil {
		InitContextCache()
	}
	return ContextCacheClient
}
