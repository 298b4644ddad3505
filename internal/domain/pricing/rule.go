package pricing

import "time"

// Rule is a configured pricing rule. Rules are immutable for the duration of
// an evaluation; they are created and edited only through the admin CRUD
// layer and are read-only to the engine.
type Rule struct {
	ID          int64
	Name        string
	Conditions  Conditions
	Formula     Formula
	Priority    int
	IsActive    bool
	TargetGroup *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// InWindow reports whether the rule's validity window contains now. Absent
// bounds are open-ended.
func (r Rule) InWindow(now time.Time) bool {
	if r.StartsAt != nil && now.Before(*r.StartsAt) {
		return false
	}
	if r.EndsAt != nil && now.After(*r.EndsAt) {
		return false
	}
	return true
}

// appliesToGroup checks the rule's target group against the context's.
// A rule without a target group applies to every group.
func (r Rule) appliesToGroup(group *string) bool {
	if r.TargetGroup == nil || *r.TargetGroup == "" {
		return true
	}
	return group != nil && *group == *r.TargetGroup
}

func (r Rule) Match() RuleMatch {
	return RuleMatch{
		ID:          r.ID,
		Name:        r.Name,
		Conditions:  r.Conditions,
		Formula:     r.Formula,
		Priority:    r.Priority,
		TargetGroup: r.TargetGroup,
	}
}
