package request

import (
	"time"

	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/usecase/commands"
)

type RuleRequest struct {
	Name        string             `json:"name" binding:"required,max=200"`
	Conditions  pricing.Conditions `json:"conditions"`
	Formula     pricing.Formula    `json:"formula" binding:"required"`
	Priority    int                `json:"priority"`
	IsActive    bool               `json:"is_active"`
	TargetGroup *string            `json:"target_group" binding:"omitempty,max=100"`
	StartsAt    *time.Time         `json:"starts_at"`
	EndsAt      *time.Time         `json:"ends_at"`
}

func (r *RuleRequest) ToParams() commands.RuleParams {
	return commands.RuleParams{
		Name:        r.Name,
		Conditions:  r.Conditions,
		Formula:     r.Formula,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
		TargetGroup: r.TargetGroup,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
	}
}
