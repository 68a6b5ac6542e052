package cache

import (
	"context"
	"sync"
	"time"

	"github.com/procurement/budget/internal/domain/budget"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// InMemoryRuleCache implements budget.RuleCache with a process local map.
// Suitable for single-instance deployments and tests.
type InMemoryRuleCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRuleCache creates the cache and starts a goroutine that drops
// expired entries every cleanupInterval
func NewInMemoryRuleCache(cleanupInterval time.Duration) *InMemoryRuleCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	c := &InMemoryRuleCache{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop(cleanupInterval)

	return c
}

func ruleKey(country, parameter string) string {
	return country + ":" + parameter
}

// Get returns the cached value while it has not expired
func (c *InMemoryRuleCache) Get(_ context.Context, country, parameter string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[ruleKey(country, parameter)]
	if !ok || e.expired(c.now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores the value; a zero ttl never expires
func (c *InMemoryRuleCache) Set(_ context.Context, country, parameter, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[ruleKey(country, parameter)] = e
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryRuleCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryRuleCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryRuleCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryRuleCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ budget.RuleCache = (*InMemoryRuleCache)(nil)
