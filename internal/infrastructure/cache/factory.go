package cache

import (
	"fmt"
	"io"

	"github.com/procurement/budget/internal/domain/budget"
	"github.com/procurement/budget/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RuleCache is a budget.RuleCache that owns resources released by Close
type RuleCache interface {
	budget.RuleCache
	io.Closer
}

// RuleCacheFactory creates rule caches based on configuration
type RuleCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RuleCacheFactoryOption is a functional option for configuring the factory
type RuleCacheFactoryOption func(*RuleCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RuleCacheFactoryOption {
	return func(f *RuleCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Default is true.
func WithInMemoryFallback(allow bool) RuleCacheFactoryOption {
	return func(f *RuleCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRuleCacheFactory creates a new factory
func NewRuleCacheFactory(cfg config.RedisConfig, opts ...RuleCacheFactoryOption) *RuleCacheFactory {
	f := &RuleCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache
func (f *RuleCacheFactory) CreateCache() (RuleCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory rule cache")
		return NewInMemoryRuleCache(0), nil
	}

	redisCache, err := NewRedisRuleCache(RedisConfig{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis rule cache", zap.String("addr", f.redisConfig.Addr()))
		return redisCache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for rule cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rule cache. "+
		"Instances will not share cached rules.",
		zap.Error(err),
	)
	return NewInMemoryRuleCache(0), nil
}
