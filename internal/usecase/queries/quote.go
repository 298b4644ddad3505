package queries

import (
	"context"
	"log/slog"

	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/infra"
	"pricing-engine/internal/pkg/config"
	"pricing-engine/internal/pkg/errs"
)

var ErrQuoteRuleNotFound = errs.New("pricing rule not found")

type QuoteView struct {
	FinalPrice   float64            `json:"final_price"`
	PreTaxPrice  float64            `json:"pre_tax_price"`
	WithTaxPrice float64            `json:"with_tax_price"`
	TaxPercent   float64            `json:"tax_percent"`
	Match        *pricing.RuleMatch `json:"match,omitempty"`
	Degraded     bool               `json:"degraded"`
	FormulaError *string            `json:"formula_error,omitempty"`
}

type RuleTestView struct {
	RuleID       int64   `json:"rule_id"`
	Matched      bool    `json:"matched"`
	RawPrice     float64 `json:"raw_price"`
	FinalPrice   float64 `json:"final_price"`
	FormulaError *string `json:"formula_error,omitempty"`
}

// RuleSnapshotSource hands out an immutable snapshot of the active rule set.
// The engine must never observe a rule set mutating mid-evaluation, so
// implementations return a fresh slice per call.
type RuleSnapshotSource interface {
	Snapshot(ctx context.Context) ([]pricing.Rule, error)
}

type PricingQueries interface {
	Quote(ctx context.Context, pctx pricing.Context, taxPercent *float64) (*QuoteView, error)
	TestRule(ctx context.Context, ruleID int64, pctx pricing.Context) (*RuleTestView, error)
}

type pricingQueriesImpl struct {
	engine *pricing.Engine
	rules  RuleSnapshotSource
	store  RuleReadStore
	cfg    config.PricingConfig
}

func NewPricingQueries(engine *pricing.Engine, rules RuleSnapshotSource, store RuleReadStore, cfg config.PricingConfig) PricingQueries {
	return &pricingQueriesImpl{
		engine: engine,
		rules:  rules,
		store:  store,
		cfg:    cfg,
	}
}

func (q *pricingQueriesImpl) Quote(ctx context.Context, pctx pricing.Context, taxPercent *float64) (*QuoteView, error) {
	rules, err := q.rules.Snapshot(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load rule snapshot")
	}

	tax := q.cfg.DefaultTaxPercent
	if taxPercent != nil {
		tax = *taxPercent
	}

	result := q.engine.CalculatePrice(pctx, rules, tax)

	view := &QuoteView{
		FinalPrice:   result.FinalPrice,
		PreTaxPrice:  result.PreTax,
		WithTaxPrice: result.WithTax,
		TaxPercent:   result.TaxPercent,
		Match:        result.Match,
		Degraded:     result.Degraded,
	}
	if result.FormulaErr != nil {
		msg := result.FormulaErr.Error()
		view.FormulaError = &msg
		// Degraded quotes still return a price; log so the broken rule
		// gets noticed before it silently undercuts every quote.
		slog.Warn("quote degraded to unmodified price",
			"product_id", pctx.ProductID,
			"rule_id", result.Match.ID,
			"error", msg)
	}
	return view, nil
}

// TestRule reads the rule straight from the store, bypassing the snapshot
// cache, so an admin previews the rule as last saved.
func (q *pricingQueriesImpl) TestRule(ctx context.Context, ruleID int64, pctx pricing.Context) (*RuleTestView, error) {
	view, err := q.store.FindByID(ctx, ruleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrQuoteRuleNotFound)
		}
		return nil, errs.Wrap(err, "failed to load pricing rule")
	}

	result := q.engine.TestRule(view.ToRule(), pctx)

	testView := &RuleTestView{
		RuleID:     ruleID,
		Matched:    result.Matched,
		RawPrice:   result.RawPrice,
		FinalPrice: result.FinalPrice,
	}
	if result.FormulaErr != nil {
		msg := result.FormulaErr.Error()
		testView.FormulaError = &msg
	}
	return testView, nil
}
