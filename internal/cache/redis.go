package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"medstock-backend/internal/config"
)

var client *redis.Client

// Init initializes the Redis connection. A nil client after a failed
// Init means graceful degradation: the store runs without cross-instance
// change notifications and session revocation is skipped.
func Init(cfg *config.Config) error {
	if cfg.Redis.Addr == "" {
		log.Println("[Cache] Redis not configured")
		return nil
	}

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client, nil when unavailable.
func GetClient() *redis.Client {
	return client
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// revokedKey namespaces token revocation entries.
func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

// RevokeToken marks a JWT id as revoked until its natural expiry.
// No-op without Redis; logout then relies on token expiry alone.
func RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) {
	if client == nil || tokenID == "" || ttl <= 0 {
		return
	}
	client.Set(ctx, revokedKey(tokenID), 1, ttl)
}

// IsTokenRevoked reports whether a JWT id has been revoked.
func IsTokenRevoked(ctx context.Context, tokenID string) bool {
	if client == nil || tokenID == "" {
		return false
	}
	n, err := client.Exists(ctx, revokedKey(tokenID)).Result()
	return err == nil && n > 0
}
