package pricing

// Attribute condition types. Anything else is treated as unconstrained
// rather than rejected, so forward-compatible documents keep matching.
const (
	AttributeOptions = "options"
	AttributeNumber  = "number"
)

// Conditions is the filter side of a rule. Every field is optional; an
// absent field places no constraint, so a rule with empty conditions is a
// catch-all. Stored as a JSON document; unknown fields in the document are
// ignored on decode.
type Conditions struct {
	PartnerIDs    []int64              `json:"partner_ids,omitempty"`
	ProductIDs    []int64              `json:"product_ids,omitempty"`
	CategoryIDs   []int64              `json:"category_ids,omitempty"`
	BrandIDs      []int64              `json:"brand_ids,omitempty"`
	Attributes    []AttributeCondition `json:"attributes,omitempty"`
	MinQuantity   *int                 `json:"min_quantity,omitempty"`
	MaxQuantity   *int                 `json:"max_quantity,omitempty"`
	MinOrderValue *float64             `json:"min_order_value,omitempty"`
}

// AttributeCondition constrains a single product attribute. For "options"
// the context's option ids must intersect OptionIDs; for "number" the value
// must equal ExactValue when given, otherwise lie within the supplied bounds.
type AttributeCondition struct {
	AttributeID int64    `json:"attribute_id"`
	Type        string   `json:"type"`
	OptionIDs   []int64  `json:"option_ids,omitempty"`
	MinValue    *float64 `json:"min_value,omitempty"`
	MaxValue    *float64 `json:"max_value,omitempty"`
	ExactValue  *float64 `json:"exact_value,omitempty"`
}

// Matches reports whether ctx satisfies every present condition. It is a
// pure conjunction, total over all inputs: it never errors, and malformed
// fields degrade to "no constraint".
func (c Conditions) Matches(ctx Context) bool {
	if len(c.ProductIDs) > 0 && !containsID(c.ProductIDs, ctx.ProductID) {
		return false
	}
	if len(c.PartnerIDs) > 0 {
		if ctx.PartnerID == nil || !containsID(c.PartnerIDs, *ctx.PartnerID) {
			return false
		}
	}
	if len(c.CategoryIDs) > 0 && !intersects(c.CategoryIDs, ctx.CategoryIDs) {
		return false
	}
	if len(c.BrandIDs) > 0 {
		if ctx.BrandID == nil || !containsID(c.BrandIDs, *ctx.BrandID) {
			return false
		}
	}
	for _, ac := range c.Attributes {
		if !ac.matches(ctx) {
			return false
		}
	}
	if c.MinQuantity != nil && ctx.Quantity < *c.MinQuantity {
		return false
	}
	if c.MaxQuantity != nil && ctx.Quantity > *c.MaxQuantity {
		return false
	}
	if c.MinOrderValue != nil && ctx.orderValue() < *c.MinOrderValue {
		return false
	}
	return true
}

// Closed world: a condition referencing an attribute the context has no
// value for fails, while a condition with no usable constraint passes.
func (ac AttributeCondition) matches(ctx Context) bool {
	val, ok := ctx.Attributes[ac.AttributeID]
	if !ok {
		return false
	}

	switch ac.Type {
	case AttributeOptions:
		if len(ac.OptionIDs) == 0 {
			return true
		}
		return intersects(ac.OptionIDs, val.OptionIDs)
	case AttributeNumber:
		if val.Number == nil {
			return false
		}
		n := *val.Number
		if ac.ExactValue != nil {
			return n == *ac.ExactValue
		}
		if ac.MinValue != nil && n < *ac.MinValue {
			return false
		}
		if ac.MaxValue != nil && n > *ac.MaxValue {
			return false
		}
		return true
	default:
		return true
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func intersects(a, b []int64) bool {
	for _, v := range b {
		if containsID(a, v) {
			return true
		}
	}
	return false
}
