package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/procurement/budget/internal/domain/budget"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "budget:rules:"

// RedisRuleCache implements budget.RuleCache using Redis so every instance
// shares the cached rule values
type RedisRuleCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewRedisRuleCache connects to Redis and verifies the connection
func NewRedisRuleCache(cfg RedisConfig) (*RedisRuleCache, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRuleCacheWithClient(client, ""), nil
}

// NewRedisRuleCacheWithClient creates a cache over an existing client
func NewRedisRuleCacheWithClient(client *redis.Client, keyPrefix string) *RedisRuleCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisRuleCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisRuleCache) key(country, parameter string) string {
	return c.keyPrefix + country + ":" + parameter
}

// Get returns the cached value; redis.Nil is a miss, not an error
func (c *RedisRuleCache) Get(ctx context.Context, country, parameter string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.key(country, parameter)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read rule from cache: %w", err)
	}
	return value, true, nil
}

// Set stores the value with ttl; a zero ttl keeps it until evicted
func (c *RedisRuleCache) Set(ctx context.Context, country, parameter, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(country, parameter), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write rule to cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisRuleCache) Close() error {
	return c.client.Close()
}

var _ budget.RuleCache = (*RedisRuleCache)(nil)
