package pricing

import (
	"sort"
	"time"
)

// SelectApplicable filters rules down to those that are active, inside their
// validity window, scoped to the context's target group and whose conditions
// match, ordered by priority descending. Equal priorities order by lowest id
// so the result is deterministic regardless of how the caller loaded the
// rules. The input slice is never mutated.
func SelectApplicable(rules []Rule, ctx Context, now time.Time) []Rule {
	applicable := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive || !r.InWindow(now) {
			continue
		}
		if !r.appliesToGroup(ctx.TargetGroup) {
			continue
		}
		if !r.Conditions.Matches(ctx) {
			continue
		}
		applicable = append(applicable, r)
	}

	sort.Slice(applicable, func(i, j int) bool {
		if applicable[i].Priority != applicable[j].Priority {
			return applicable[i].Priority > applicable[j].Priority
		}
		return applicable[i].ID < applicable[j].ID
	})
	return applicable
}

// SelectWinner returns the highest-priority applicable rule. A false return
// is not an error: it signals "price with the unmodified base/cost price".
func SelectWinner(rules []Rule, ctx Context, now time.Time) (Rule, bool) {
	applicable := SelectApplicable(rules, ctx, now)
	if len(applicable) == 0 {
		return Rule{}, false
	}
	return applicable[0], true
}
