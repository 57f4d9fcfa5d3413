package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/inkpost/inkpost/internal/pkg/env"
	"github.com/redis/go-redis/v9"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	// Test the connection
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to Redis cache: %v", err)
	} else {
		log.Printf("Successfully connected to Redis cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// Delete removes a key from the cache
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}

const proGateKeyPrefix = "progate:"
const proGateTTL = 5 * time.Minute

// ProGateKey builds the cache key for a user's pro-gate flag.
func ProGateKey(userID uint) string {
	return fmt.Sprintf("%s%d", proGateKeyPrefix, userID)
}

// SetProGate caches a user's pro flag for cheap read-path checks.
func SetProGate(userID uint, isPro bool) error {
	val := "0"
	if isPro {
		val = "1"
	}
	return Set(ProGateKey(userID), val, proGateTTL)
}

// GetProGate returns the cached pro flag. The second return value reports
// whether a cached value was present.
func GetProGate(userID uint) (bool, bool) {
	val, err := Get(ProGateKey(userID))
	if err != nil {
		return false, false
	}
	return val == "1", true
}

// InvalidateProGate drops the cached pro flag after an entitlement sync.
func InvalidateProGate(userID uint) {
	if err := Delete(ProGateKey(userID)); err != nil {
		log.Printf("failed to invalidate pro gate cache for user %d: %v", userID, err)
	}
}
