package pricing

// AttributeValue carries what the caller knows about one product attribute:
// the selected option ids for option-typed attributes, or a numeric value.
type AttributeValue struct {
	OptionIDs []int64
	Number    *float64
}

// Context is the per-evaluation input: what is being priced, for whom and in
// what quantity. It is supplied fresh on every call and never retained.
type Context struct {
	ProductID   int64
	PartnerID   *int64
	CategoryIDs []int64
	BrandID     *int64
	Quantity    int
	OrderValue  *float64
	TargetGroup *string
	BasePrice   *float64
	CostPrice   *float64
	RetailPrice *float64
	Attributes  map[int64]AttributeValue
}

func (c Context) orderValue() float64 {
	if c.OrderValue == nil {
		return 0
	}
	return *c.OrderValue
}

// fallbackPrice is the value the facade degrades to when no rule applies or a
// formula fails: base price, then cost price, then zero.
func (c Context) fallbackPrice() float64 {
	if c.BasePrice != nil {
		return *c.BasePrice
	}
	if c.CostPrice != nil {
		return *c.CostPrice
	}
	return 0
}

// RuleMatch is the projection of a fired rule returned to callers: enough to
// re-justify why the rule won, without internal bookkeeping.
type RuleMatch struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Conditions  Conditions `json:"conditions"`
	Formula     Formula    `json:"formula"`
	Priority    int        `json:"priority"`
	TargetGroup *string    `json:"target_group,omitempty"`
}

// Result is the outcome of a full CalculatePrice run.
type Result struct {
	FinalPrice float64
	PreTax     float64
	WithTax    float64
	TaxPercent float64
	Match      *RuleMatch
	// Degraded is set when the winning rule's formula failed and the price
	// fell back to the unmodified base/cost price. FormulaErr carries the
	// failure for diagnostics; it is never propagated as a hard error.
	Degraded   bool
	FormulaErr error
}

// TestResult is the outcome of a single-rule dry run.
type TestResult struct {
	Matched    bool
	RawPrice   float64
	FinalPrice float64
	FormulaErr error
}
