package services

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a computed dashboard stays fresh.
const DefaultCacheTTL = time.Hour

// EmissionsCache keeps the last real dashboard for ttl.
//
// The mutex only guards the slot. Two callers that both find it stale will
// both recompute and the last one to finish wins; the results are equivalent
// so the duplicate query is tolerated.
type EmissionsCache struct {
	ttl     time.Duration
	compute func(ctx context.Context) EmissionsResult
	now     func() time.Time

	mu   sync.Mutex
	slot *EmissionsResult
}

func NewEmissionsCache(ttl time.Duration, compute func(ctx context.Context) EmissionsResult) *EmissionsCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &EmissionsCache{ttl: ttl, compute: compute, now: time.Now}
}

// Get returns the stored result while fresh, otherwise recomputes. Fallback
// results are returned but never stored, so the next call retries the source.
func (c *EmissionsCache) Get(ctx context.Context) EmissionsResult {
	if cached, ok := c.fresh(); ok {
		cached.Cached = true
		return cached
	}

	res := c.compute(ctx)
	res.Cached = false
	if !res.Demo && res.Data != nil {
		c.mu.Lock()
		stored := res
		c.slot = &stored
		c.mu.Unlock()
	}
	return res
}

// Invalidate drops the stored result.
func (c *EmissionsCache) Invalidate() {
	c.mu.Lock()
	c.slot = nil
	c.mu.Unlock()
}

func (c *EmissionsCache) fresh() (EmissionsResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slot == nil {
		return EmissionsResult{}, false
	}
	if c.now().Sub(c.slot.ComputedAt) >= c.ttl {
		return EmissionsResult{}, false
	}
	return *c.slot, true
}
