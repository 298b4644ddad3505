package response

import (
	"time"

	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type RuleResponse struct {
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

func FromRuleView(v *queries.RuleView) *RuleResponse {
	var resp RuleResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type RuleListItemResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Priority    int        `json:"priority"`
	IsActive    bool       `json:"is_active"`
	TargetGroup *string    `json:"target_group,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromRuleList(items []*queries.RuleListItem) []*RuleListItemResponse {
	res := make([]*RuleListItemResponse, len(items))
	for i, it := range items {
		resp := &RuleListItemResponse{}
		_ = copier.Copy(resp, it)
		res[i] = resp
	}
	return res
}
