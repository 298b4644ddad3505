package commands

import (
	"context"
	"time"

	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/infra"
	"pricing-engine/internal/pkg/errs"
	"pricing-engine/internal/usecase/queries"
)

var (
	ErrRuleNotFound            = errs.New("pricing rule not found")
	ErrInvalidRule             = errs.New("invalid pricing rule")
	ErrDuplicateRuleName       = errs.New("rule name already exists")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// RuleParams carries a rule document from the form layer. Conditions and
// formula arrive as already-decoded JSON documents; unknown fields were
// dropped during decoding.
type RuleParams struct {
	Name        string
	Conditions  pricing.Conditions
	Formula     pricing.Formula
	Priority    int
	IsActive    bool
	TargetGroup *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

type RuleRepository interface {
	Create(ctx context.Context, rule *pricing.Rule) (int64, error)
	Update(ctx context.Context, rule *pricing.Rule) error
	Delete(ctx context.Context, id int64) error
}

type RuleCommands interface {
	CreateRule(ctx context.Context, params RuleParams) (*queries.RuleView, error)
	UpdateRule(ctx context.Context, id int64, params RuleParams) (*queries.RuleView, error)
	DeleteRule(ctx context.Context, id int64) error
}

// SnapshotInvalidator busts the cached rule snapshot after a mutation so the
// quote path picks up the change without waiting out the TTL.
type SnapshotInvalidator interface {
	Invalidate()
}

type ruleCommandsImpl struct {
	repo        RuleRepository
	ruleQueries queries.RuleQueries
	invalidator SnapshotInvalidator
}

func NewRuleCommands(repo RuleRepository, ruleQueries queries.RuleQueries, invalidator SnapshotInvalidator) RuleCommands {
	return &ruleCommandsImpl{
		repo:        repo,
		ruleQueries: ruleQueries,
		invalidator: invalidator,
	}
}

func (c *ruleCommandsImpl) CreateRule(ctx context.Context, params RuleParams) (*queries.RuleView, error) {
	rule, err := params.toRule(0)
	if err != nil {
		return nil, err
	}

	id, err := c.repo.Create(ctx, rule)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrDuplicateRuleName)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	c.invalidator.Invalidate()

	// Read-after-write: return the stored document, not the request echo
	view, err := c.ruleQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *ruleCommandsImpl) UpdateRule(ctx context.Context, id int64, params RuleParams) (*queries.RuleView, error) {
	rule, err := params.toRule(id)
	if err != nil {
		return nil, err
	}

	if err := c.repo.Update(ctx, rule); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRuleNotFound
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrDuplicateRuleName)
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	c.invalidator.Invalidate()

	view, err := c.ruleQueries.GetByID(ctx, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *ruleCommandsImpl) DeleteRule(ctx context.Context, id int64) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrRuleNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	c.invalidator.Invalidate()
	return nil
}

func (p RuleParams) toRule(id int64) (*pricing.Rule, error) {
	if err := p.validate(); err != nil {
		return nil, errs.Mark(err, ErrInvalidRule)
	}
	return &pricing.Rule{
		ID:          id,
		Name:        p.Name,
		Conditions:  p.Conditions,
		Formula:     p.Formula,
		Priority:    p.Priority,
		IsActive:    p.IsActive,
		TargetGroup: p.TargetGroup,
		StartsAt:    p.StartsAt,
		EndsAt:      p.EndsAt,
	}, nil
}

// validate rejects documents the engine could never price with. It stays
// structural: context-dependent failures (a markup_cost rule hitting a
// context without cost price) are the evaluator's recoverable territory.
func (p RuleParams) validate() error {
	if p.Name == "" {
		return errs.New("rule name is required")
	}
	switch p.Formula.Type {
	case pricing.FormulaMarkupCost, pricing.FormulaPercentageMarkup:
		if p.Formula.Value == nil {
			return errs.New("formula requires value")
		}
	case pricing.FormulaFixedPrice:
		if p.Formula.Value == nil {
			return errs.New("fixed_price requires value")
		}
	case pricing.FormulaDiscount:
		if p.Formula.DiscountPercent == nil {
			return errs.New("discount requires discount_percent")
		}
	case pricing.FormulaProportionalMarkup:
		if p.Formula.LowerBound == nil || p.Formula.LowerMarkup == nil ||
			p.Formula.UpperBound == nil || p.Formula.UpperMarkup == nil {
			return errs.New("proportional_markup requires both anchor points")
		}
		if *p.Formula.UpperBound < *p.Formula.LowerBound {
			return errs.New("proportional_markup bounds are inverted")
		}
	case pricing.FormulaCustomScript:
		if p.Formula.Script == "" {
			return errs.New("custom_script requires a script")
		}
	default:
		return errs.New("unknown formula type " + string(p.Formula.Type))
	}
	if p.Formula.MinPrice != nil && p.Formula.MaxPrice != nil && *p.Formula.MaxPrice < *p.Formula.MinPrice {
		return errs.New("max_price below min_price")
	}
	if p.Conditions.MinQuantity != nil && p.Conditions.MaxQuantity != nil &&
		*p.Conditions.MaxQuantity < *p.Conditions.MinQuantity {
		return errs.New("max_quantity below min_quantity")
	}
	if p.StartsAt != nil && p.EndsAt != nil && p.EndsAt.Before(*p.StartsAt) {
		return errs.New("ends_at before starts_at")
	}
	return nil
}
