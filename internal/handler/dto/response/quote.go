package response

import (
	"pricing-engine/internal/domain/pricing"
	"pricing-engine/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type QuoteResponse struct {
	FinalPrice   float64            `json:"final_price"`
	PreTaxPrice  float64            `json:"pre_tax_price"`
	WithTaxPrice float64            `json:"with_tax_price"`
	TaxPercent   float64            `json:"tax_percent"`
	Match        *pricing.RuleMatch `json:"match,omitempty"`
	Degraded     bool               `json:"degraded"`
	FormulaError *string            `json:"formula_error,omitempty"`
}

func FromQuoteView(v *queries.QuoteView) *QuoteResponse {
	var resp QuoteResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type RuleTestResponse struct {
	RuleID       int64   `json:"rule_id"`
	Matched      bool    `json:"matched"`
	RawPrice     float64 `json:"raw_price"`
	FinalPrice   float64 `json:"final_price"`
	FormulaError *string `json:"formula_error,omitempty"`
}

func FromRuleTestView(v *queries.RuleTestView) *RuleTestResponse {
	var resp RuleTestResponse
	_ = copier.Copy(&resp, v)
	return &resp
}
