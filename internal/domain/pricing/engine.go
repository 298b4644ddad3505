package pricing

import (
	"pricing-engine/internal/pkg/clock"
)

// Engine composes selector, evaluator, tax application and charm rounding
// behind the single entry point callers use. It holds no mutable state
// besides the injected clock, so one instance is safe for any number of
// concurrent calls.
type Engine struct {
	clock clock.Clock
}

func NewEngine(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

// CalculatePrice prices ctx against the supplied rule set. taxPercent is a
// fraction (0.19 = 19%). A failing formula degrades to the unmodified
// base/cost price with the failure surfaced in the result; the engine always
// returns a displayable price.
func (e *Engine) CalculatePrice(ctx Context, rules []Rule, taxPercent float64) Result {
	result := Result{TaxPercent: taxPercent}

	base := ctx.fallbackPrice()
	if winner, ok := SelectWinner(rules, ctx, e.clock.Now()); ok {
		match := winner.Match()
		result.Match = &match

		evaluated, err := Evaluate(winner.Formula, ctx)
		if err != nil {
			result.Degraded = true
			result.FormulaErr = err
		} else {
			base = evaluated
		}
	}

	result.PreTax = base
	result.WithTax = base * (1 + taxPercent)
	result.FinalPrice = RoundCharm(result.WithTax)
	return result
}

// TestRule dry-runs a single rule against ctx without going through
// selection. The formula is evaluated even when the
// conditions would not match, so a rule can be debugged in isolation. No tax
// is applied; RawPrice is the pre-rounding value.
func (e *Engine) TestRule(rule Rule, ctx Context) TestResult {
	result := TestResult{
		Matched: rule.Conditions.Matches(ctx) && rule.appliesToGroup(ctx.TargetGroup),
	}

	raw, err := Evaluate(rule.Formula, ctx)
	if err != nil {
		result.FormulaErr = err
		return result
	}
	result.RawPrice = raw
	result.FinalPrice = RoundCharm(raw)
	return result
}
