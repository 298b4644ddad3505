//go:build unit || e2e

package builder

import (
	"time"

	"pricing-engine/internal/domain/pricing"
	reqdto "pricing-engine/internal/handler/dto/request"
	"pricing-engine/internal/usecase/commands"
	"pricing-engine/internal/usecase/queries"
)

type RuleBuilder struct {
	ID          int64
	Name        string
	Conditions  pricing.Conditions
	Formula     pricing.Formula
	Priority    int
	IsActive    bool
	TargetGroup *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewRuleBuilder() *RuleBuilder {
	now := time.Now()
	value := 0.5
	return &RuleBuilder{
		ID:   1,
		Name: "Standard markup",
		Formula: pricing.Formula{
			Type:  pricing.FormulaMarkupCost,
			Value: &value,
		},
		Priority:  0,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *RuleBuilder) With(mutate func(*RuleBuilder)) *RuleBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *RuleBuilder) BuildDomain() pricing.Rule {
	return pricing.Rule{
		ID:          r.ID,
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

func (r *RuleBuilder) BuildParams() commands.RuleParams {
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

func (r *RuleBuilder) BuildRequestDTO() reqdto.RuleRequest {
	return reqdto.RuleRequest{
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

func (r *RuleBuilder) BuildView() *queries.RuleView {
	return &queries.RuleView{
		ID:          r.ID,
		Name:        r.Name,
		Conditions:  r.Conditions,
		Formula:     r.Formula,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
		TargetGroup: r.TargetGroup,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *RuleBuilder) BuildListItem() *queries.RuleListItem {
	return &queries.RuleListItem{
		ID:          r.ID,
		Name:        r.Name,
		Priority:    r.Priority,
		IsActive:    r.IsActive,
		TargetGroup: r.TargetGroup,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		CreatedAt:   r.CreatedAt,
	}
}

// Fluent builder methods
func (r *RuleBuilder) WithID(id int64) *RuleBuilder {
	r.ID = id
	return r
}

func (r *RuleBuilder) WithName(name string) *RuleBuilder {
	r.Name = name
	return r
}

func (r *RuleBuilder) WithConditions(c pricing.Conditions) *RuleBuilder {
	r.Conditions = c
	return r
}

func (r *RuleBuilder) WithFormula(f pricing.Formula) *RuleBuilder {
	r.Formula = f
	return r
}

func (r *RuleBuilder) WithPriority(p int) *RuleBuilder {
	r.Priority = p
	return r
}

func (r *RuleBuilder) WithActive(active bool) *RuleBuilder {
	r.IsActive = active
	return r
}

func (r *RuleBuilder) WithTargetGroup(group string) *RuleBuilder {
	r.TargetGroup = &group
	return r
}

func (r *RuleBuilder) WithWindow(startsAt, endsAt time.Time) *RuleBuilder {
	r.StartsAt = &startsAt
	r.EndsAt = &endsAt
	return r
}

func (r *RuleBuilder) AsFixedPrice(value float64) *RuleBuilder {
	r.Formula = pricing.Formula{
		Type:  pricing.FormulaFixedPrice,
		Value: &value,
	}
	return r
}

func (r *RuleBuilder) AsDiscount(percent float64) *RuleBuilder {
	r.Formula = pricing.Formula{
		Type:            pricing.FormulaDiscount,
		DiscountPercent: &percent,
	}
	return r
}

func (r *RuleBuilder) AsScript(script string) *RuleBuilder {
	r.Formula = pricing.Formula{
		Type:   pricing.FormulaCustomScript,
		Script: script,
	}
	return r
}

type ContextBuilder struct {
	ctx pricing.Context
}

func NewContextBuilder() *ContextBuilder {
	return &ContextBuilder{
		ctx: pricing.Context{
			ProductID: 1,
			Quantity:  1,
		},
	}
}

func (b *ContextBuilder) Build() pricing.Context {
	return b.ctx
}

func (b *ContextBuilder) WithProductID(id int64) *ContextBuilder {
	b.ctx.ProductID = id
	return b
}

func (b *ContextBuilder) WithPartnerID(id int64) *ContextBuilder {
	b.ctx.PartnerID = &id
	return b
}

func (b *ContextBuilder) WithCategoryIDs(ids ...int64) *ContextBuilder {
	b.ctx.CategoryIDs = ids
	return b
}

func (b *ContextBuilder) WithBrandID(id int64) *ContextBuilder {
	b.ctx.BrandID = &id
	return b
}

func (b *ContextBuilder) WithQuantity(q int) *ContextBuilder {
	b.ctx.Quantity = q
	return b
}

func (b *ContextBuilder) WithOrderValue(v float64) *ContextBuilder {
	b.ctx.OrderValue = &v
	return b
}

func (b *ContextBuilder) WithTargetGroup(group string) *ContextBuilder {
	b.ctx.TargetGroup = &group
	return b
}

func (b *ContextBuilder) WithBasePrice(p float64) *ContextBuilder {
	b.ctx.BasePrice = &p
	return b
}

func (b *ContextBuilder) WithCostPrice(p float64) *ContextBuilder {
	b.ctx.CostPrice = &p
	return b
}

func (b *ContextBuilder) WithRetailPrice(p float64) *ContextBuilder {
	b.ctx.RetailPrice = &p
	return b
}

func (b *ContextBuilder) WithOptionAttribute(attributeID int64, optionIDs ...int64) *ContextBuilder {
	if b.ctx.Attributes == nil {
		b.ctx.Attributes = make(map[int64]pricing.AttributeValue)
	}
	b.ctx.Attributes[attributeID] = pricing.AttributeValue{OptionIDs: optionIDs}
	return b
}

func (b *ContextBuilder) WithNumberAttribute(attributeID int64, value float64) *ContextBuilder {
	if b.ctx.Attributes == nil {
		b.ctx.Attributes = make(map[int64]pricing.AttributeValue)
	}
	b.ctx.Attributes[attributeID] = pricing.AttributeValue{Number: &value}
	return b
}
