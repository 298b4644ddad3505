package pricing

import (
	"errors"
	"math"
)

type FormulaType string

const (
	FormulaMarkupCost         FormulaType = "markup_cost"
	FormulaFixedPrice         FormulaType = "fixed_price"
	FormulaDiscount           FormulaType = "discount"
	FormulaPercentageMarkup   FormulaType = "percentage_markup"
	FormulaProportionalMarkup FormulaType = "proportional_markup"
	FormulaCustomScript       FormulaType = "custom_script"
)

// Formula is the computation side of a rule, discriminated by Type. Only the
// fields belonging to the active variant are read; extra fields in the stored
// document are ignored rather than rejected. Markup and discount values are
// fractions (0.5 = 50%). MinPrice/MaxPrice clamp the result of any variant.
type Formula struct {
	Type            FormulaType        `json:"type"`
	Value           *float64           `json:"value,omitempty"`
	DiscountPercent *float64           `json:"discount_percent,omitempty"`
	LowerBound      *float64           `json:"lower_bound,omitempty"`
	LowerMarkup     *float64           `json:"lower_markup,omitempty"`
	UpperBound      *float64           `json:"upper_bound,omitempty"`
	UpperMarkup     *float64           `json:"upper_markup,omitempty"`
	Script          string             `json:"script,omitempty"`
	Variables       map[string]float64 `json:"variables,omitempty"`
	MinPrice        *float64           `json:"min_price,omitempty"`
	MaxPrice        *float64           `json:"max_price,omitempty"`
}

type FormulaErrorKind string

const (
	KindMissingInput     FormulaErrorKind = "MISSING_INPUT"
	KindDegenerateBounds FormulaErrorKind = "DEGENERATE_BOUNDS"
	KindScriptError      FormulaErrorKind = "SCRIPT_ERROR"
	KindNonNumericResult FormulaErrorKind = "NON_NUMERIC_RESULT"
	KindUnknownVariant   FormulaErrorKind = "UNKNOWN_VARIANT"
)

// FormulaError is a recoverable evaluation failure. The facade catches it
// and falls back to the unmodified base/cost price; it never aborts pricing.
type FormulaError struct {
	Kind FormulaErrorKind
	msg  string
	err  error
}

func (e *FormulaError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e *FormulaError) Unwrap() error {
	return e.err
}

func formulaErr(kind FormulaErrorKind, msg string) error {
	return &FormulaError{Kind: kind, msg: msg}
}

func wrapFormulaErr(kind FormulaErrorKind, msg string, err error) error {
	return &FormulaError{Kind: kind, msg: msg, err: err}
}

func IsFormulaKind(err error, kind FormulaErrorKind) bool {
	var fe *FormulaError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// Evaluate computes the base price a formula produces for ctx, before tax
// and rounding. All failures are FormulaError values.
func Evaluate(f Formula, ctx Context) (float64, error) {
	result, err := evalVariant(f, ctx)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, formulaErr(KindNonNumericResult, "formula produced a non-numeric result")
	}
	return clamp(result, f.MinPrice, f.MaxPrice), nil
}

func evalVariant(f Formula, ctx Context) (float64, error) {
	switch f.Type {
	case FormulaMarkupCost:
		if ctx.CostPrice == nil {
			return 0, formulaErr(KindMissingInput, "markup_cost requires cost_price")
		}
		if f.Value == nil {
			return 0, formulaErr(KindMissingInput, "markup_cost requires value")
		}
		return *ctx.CostPrice * (1 + *f.Value), nil

	case FormulaFixedPrice:
		if f.Value == nil {
			return 0, formulaErr(KindMissingInput, "fixed_price requires value")
		}
		return *f.Value, nil

	case FormulaDiscount:
		if ctx.BasePrice == nil {
			return 0, formulaErr(KindMissingInput, "discount requires base_price")
		}
		if f.DiscountPercent == nil {
			return 0, formulaErr(KindMissingInput, "discount requires discount_percent")
		}
		return *ctx.BasePrice * (1 - *f.DiscountPercent), nil

	case FormulaPercentageMarkup:
		if ctx.BasePrice == nil {
			return 0, formulaErr(KindMissingInput, "percentage_markup requires base_price")
		}
		if f.Value == nil {
			return 0, formulaErr(KindMissingInput, "percentage_markup requires value")
		}
		return *ctx.BasePrice * (1 + *f.Value), nil

	case FormulaProportionalMarkup:
		return evalProportionalMarkup(f, ctx)

	case FormulaCustomScript:
		return evalCustomScript(f, ctx)

	default:
		return 0, formulaErr(KindUnknownVariant, "unknown formula type "+string(f.Type))
	}
}

// evalProportionalMarkup interpolates the markup rate linearly between the
// (lower_bound, lower_markup) and (upper_bound, upper_markup) anchors and
// applies it multiplicatively to the input price. Input prices outside the
// bounds clamp to the nearest anchor's markup. Equal bounds degrade to
// lower_markup; inverted bounds are DEGENERATE_BOUNDS since no
// interpolation is meaningful.
func evalProportionalMarkup(f Formula, ctx Context) (float64, error) {
	if f.LowerBound == nil || f.LowerMarkup == nil || f.UpperBound == nil || f.UpperMarkup == nil {
		return 0, formulaErr(KindMissingInput, "proportional_markup requires both anchor points")
	}
	input, err := inputPrice(ctx)
	if err != nil {
		return 0, err
	}

	lo, loMarkup := *f.LowerBound, *f.LowerMarkup
	hi, hiMarkup := *f.UpperBound, *f.UpperMarkup

	if hi < lo {
		return 0, formulaErr(KindDegenerateBounds, "upper_bound below lower_bound")
	}

	var markup float64
	switch {
	case lo == hi, input <= lo:
		markup = loMarkup
	case input >= hi:
		markup = hiMarkup
	default:
		markup = loMarkup + (hiMarkup-loMarkup)*(input-lo)/(hi-lo)
	}

	return input * (1 + markup), nil
}

func evalCustomScript(f Formula, ctx Context) (float64, error) {
	if f.Script == "" {
		return 0, formulaErr(KindScriptError, "custom_script requires a script")
	}

	input, err := inputPrice(ctx)
	if err != nil {
		return 0, err
	}

	vars := make(map[string]float64, len(f.Variables)+6)
	for k, v := range f.Variables {
		vars[k] = v
	}
	vars["input_price"] = input
	vars["quantity"] = float64(ctx.Quantity)
	vars["order_value"] = ctx.orderValue()
	if ctx.BasePrice != nil {
		vars["base_price"] = *ctx.BasePrice
	}
	if ctx.CostPrice != nil {
		vars["cost_price"] = *ctx.CostPrice
	}
	if ctx.RetailPrice != nil {
		vars["retail_price"] = *ctx.RetailPrice
	}

	result, err := evalScript(f.Script, vars)
	if err != nil {
		return 0, wrapFormulaErr(KindScriptError, "script evaluation failed", err)
	}
	return result, nil
}

// inputPrice is the price a price-derived formula starts from: cost price
// when the caller supplied one, otherwise the base price.
func inputPrice(ctx Context) (float64, error) {
	if ctx.CostPrice != nil {
		return *ctx.CostPrice, nil
	}
	if ctx.BasePrice != nil {
		return *ctx.BasePrice, nil
	}
	return 0, formulaErr(KindMissingInput, "neither cost_price nor base_price supplied")
}

func clamp(v float64, minPrice, maxPrice *float64) float64 {
	if minPrice != nil && v < *minPrice {
		v = *minPrice
	}
	if maxPrice != nil && v > *maxPrice {
		v = *maxPrice
	}
	return v
}
