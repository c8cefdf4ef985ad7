package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection. Redis is optional: on failure the
// client stays nil and every helper degrades to a no-op.
func Init() error {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateStudentCaches clears student- and balance-derived caches.
// Called when: enroll, bulk enroll, update, discount/dues change.
func InvalidateStudentCaches(ctx context.Context) {
	InvalidatePattern(ctx, "students:*")
	InvalidatePattern(ctx, "dashboard:*")
	InvalidatePattern(ctx, "reports:*")
	InvalidatePattern(ctx, "insights:*")
}

// InvalidatePaymentCaches clears ledger-derived caches.
// Called when: SubmitPayment commits.
func InvalidatePaymentCaches(ctx context.Context) {
	InvalidatePattern(ctx, "payments:*")
	InvalidatePattern(ctx, "dashboard:*")
	InvalidatePattern(ctx, "reports:*")
	InvalidatePattern(ctx, "insights:*")
}

// InvalidateStructureCaches clears fee-structure-derived caches. Structure
// totals feed every balance, so the dashboard goes too.
func InvalidateStructureCaches(ctx context.Context) {
	InvalidatePattern(ctx, "structures:*")
	InvalidatePattern(ctx, "students:*")
	InvalidatePattern(ctx, "dashboard:*")
	InvalidatePattern(ctx, "reports:*")
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
