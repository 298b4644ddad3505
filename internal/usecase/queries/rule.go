package queries

import (
	"context"
	"time"

	"pricing-engine/internal/domain/pricing"
)

// Read models (DTO for read side)
type RuleView struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Conditions  pricing.Conditions `json:"conditions"`
	Formula     pricing.Formula    `json:"formula"`
	Priority    int                `json:"priority"`
	IsActive    bool               `json:"is_active"`
	TargetGroup *string            `json:"target_group,omitempty"`
	StartsAt    *time.Time         `json:"starts_at,omitempty"`
	EndsAt      *time.Time         `json:"ends_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type RuleListItem struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Priority    int        `json:"priority"`
	IsActive    bool       `json:"is_active"`
	TargetGroup *string    `json:"target_group,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RuleFilter narrows List results. Nil fields place no constraint.
type RuleFilter struct {
	ActiveOnly  bool
	TargetGroup *string
}

type RuleQueries interface {
	GetByID(ctx context.Context, id int64) (*RuleView, error)
	List(ctx context.Context, filter RuleFilter) ([]*RuleListItem, error)
}

type RuleReadStore interface {
	FindByID(ctx context.Context, id int64) (*RuleView, error)
	FindAll(ctx context.Context, filter RuleFilter) ([]*RuleListItem, error)
}

type ruleQueriesImpl struct {
	store RuleReadStore
}

func NewRuleQueries(store RuleReadStore) RuleQueries {
	return &ruleQueriesImpl{store: store}
}

func (q *ruleQueriesImpl) GetByID(ctx context.Context, id int64) (*RuleView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *ruleQueriesImpl) List(ctx context.Context, filter RuleFilter) ([]*RuleListItem, error) {
	return q.store.FindAll(ctx, filter)
}

// ToRule projects a stored view onto the engine's rule type.
func (v *RuleView) ToRule() pricing.Rule {
	return pricing.Rule{
		ID:          v.ID,
		Name:        v.Name,
		Conditions:  v.Conditions,
		Formula:     v.Formula,
		Priority:    v.Priority,
		IsActive:    v.IsActive,
		TargetGroup: v.TargetGroup,
		StartsAt:    v.StartsAt,
		EndsAt:      v.EndsAt,
	}
}
