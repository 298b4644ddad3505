package cache

import (
	"context"
	"sync"
	"time"

	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/pkg/clock"
)

// RuleLister loads the current active rule set from storage.
type RuleLister interface {
	ListActive(ctx context.Context) ([]pricing.Rule, error)
}

// RuleCache hands the pricing engine an immutable snapshot of the active
// rule set, refreshed at most once per TTL. The mutex covers the whole
// refresh, so concurrent callers never trigger more than one storage read
// and never observe a half-replaced snapshot. Returned slices are copies:
// the engine must not see a rule set mutate mid-evaluation.
type RuleCache struct {
	lister RuleLister
	ttl    time.Duration
	clock  clock.Clock

	mu        sync.Mutex
	snapshot  []pricing.Rule
	fetchedAt time.Time
}

func NewRuleCache(lister RuleLister, ttl time.Duration, clk clock.Clock) *RuleCache {
	return &RuleCache{
		lister: lister,
		ttl:    ttl,
		clock:  clk,
	}
}

func (c *RuleCache) Snapshot(ctx context.Context) ([]pricing.Rule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.fetchedAt.IsZero() || now.Sub(c.fetchedAt) >= c.ttl {
		rules, err := c.lister.ListActive(ctx)
		if err != nil {
			// A stale snapshot keeps quotes flowing while storage is
			// down; only the very first load propagates the error.
			if c.fetchedAt.IsZero() {
				return nil, err
			}
		} else {
			c.snapshot = rules
			c.fetchedAt = now
		}
	}

	out := make([]pricing.Rule, len(c.snapshot))
	copy(out, c.snapshot)
	return out, nil
}

// Invalidate forces the next Snapshot call to reload, used after rule
// mutations so admins see their edits take effect immediately.
func (c *RuleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.fetchedAt = time.Time{}
}
