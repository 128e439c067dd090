// database/redis.go - Session store (Redis)
package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var redisClient *redis.Client

// InitRedis initializes the Redis connection used for session revocation
// and presence counters. Redis is optional: when REDIS_ADDR is unset the
// server runs without it and revocation checks are skipped.
func InitRedis() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, running without Redis session store")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis unreachable (%v), running without session store", err)
		return nil
	}

	redisClient = client
	log.Println("✅ Redis connected successfully")
	return client
}

// GetRedis returns the Redis client, or nil when sessions are disabled.
func GetRedis() *redis.Client {
	return redisClient
}
