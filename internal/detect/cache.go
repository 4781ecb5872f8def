package detect

// #region imports
import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dquist/master-verifier/internal/assess"
)

// #endregion

// #region cache-interface

// Cache stores verification results keyed by (query, response). Misses are
// never errors; a failing backend just behaves like an empty cache.
type Cache interface {
	Get(ctx context.Context, key string) (assess.VerificationResult, bool)
	Set(ctx context.Context, key string, result assess.VerificationResult) error
}

// cacheKey hashes the verification inputs into a stable key.
func cacheKey(query, response string) string {
	sum := sha256.Sum256([]byte(query + "|" + response))
	return hex.EncodeToString(sum[:])
}

// #endregion

// #region redis-cache

// RedisCache shares verification results across processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a redis client with the given entry TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (assess.VerificationResult, bool) {
	data, err := c.client.Get(ctx, "verify:"+key).Result()
	if err != nil {
		return assess.VerificationResult{}, false
	}
	var result assess.VerificationResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return assess.VerificationResult{}, false
	}
	return result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result assess.VerificationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "verify:"+key, data, c.ttl).Err()
}

// #endregion

// #region memory-cache

// MemoryCache is a process-local cache for single-node deployments and tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]assess.VerificationResult
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]assess.VerificationResult)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (assess.VerificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[key]
	return result, ok
}

func (c *MemoryCache) Set(_ context.Context, key string, result assess.VerificationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

// #endregion
