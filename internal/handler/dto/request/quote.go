package request

import (
	"pricing-engine/internal/domain/pricing"
)

type AttributeValueRequest struct {
	OptionIDs []int64  `json:"option_ids"`
	Number    *float64 `json:"number"`
}

type QuoteRequest struct {
	ProductID   int64                           `json:"product_id" binding:"required"`
	PartnerID   *int64                          `json:"partner_id"`
	CategoryIDs []int64                         `json:"category_ids"`
	BrandID     *int64                          `json:"brand_id"`
	Quantity    int                             `json:"quantity" binding:"required,min=1"`
	OrderValue  *float64                        `json:"order_value" binding:"omitempty,min=0"`
	TargetGroup *string                         `json:"target_group"`
	BasePrice   *float64                        `json:"base_price" binding:"omitempty,min=0"`
	CostPrice   *float64                        `json:"cost_price" binding:"omitempty,min=0"`
	RetailPrice *float64                        `json:"retail_price" binding:"omitempty,min=0"`
	Attributes  map[int64]AttributeValueRequest `json:"attributes"`
	// TaxPercent is a fraction (0.19 = 19%); nil falls back to the
	// configured default.
	TaxPercent *float64 `json:"tax_percent" binding:"omitempty,min=0"`
}

type RuleTestRequest struct {
	ProductID   int64                           `json:"product_id" binding:"required"`
	PartnerID   *int64                          `json:"partner_id"`
	CategoryIDs []int64                         `json:"category_ids"`
	BrandID     *int64                          `json:"brand_id"`
	Quantity    int                             `json:"quantity" binding:"required,min=1"`
	OrderValue  *float64                        `json:"order_value" binding:"omitempty,min=0"`
	TargetGroup *string                         `json:"target_group"`
	BasePrice   *float64                        `json:"base_price" binding:"omitempty,min=0"`
	CostPrice   *float64                        `json:"cost_price" binding:"omitempty,min=0"`
	RetailPrice *float64                        `json:"retail_price" binding:"omitempty,min=0"`
	Attributes  map[int64]AttributeValueRequest `json:"attributes"`
}

func (r *QuoteRequest) ToContext() pricing.Context {
	return buildContext(r.ProductID, r.PartnerID, r.CategoryIDs, r.BrandID, r.Quantity,
		r.OrderValue, r.TargetGroup, r.BasePrice, r.CostPrice, r.RetailPrice, r.Attributes)
}

func (r *RuleTestRequest) ToContext() pricing.Context {
	return buildContext(r.ProductID, r.PartnerID, r.CategoryIDs, r.BrandID, r.Quantity,
		r.OrderValue, r.TargetGroup, r.BasePrice, r.CostPrice, r.RetailPrice, r.Attributes)
}

func buildContext(
	productID int64, partnerID *int64, categoryIDs []int64, brandID *int64, quantity int,
	orderValue *float64, targetGroup *string, basePrice, costPrice, retailPrice *float64,
	attributes map[int64]AttributeValueRequest,
) pricing.Context {
	var attrs map[int64]pricing.AttributeValue
	if len(attributes) > 0 {
		attrs = make(map[int64]pricing.AttributeValue, len(attributes))
		for id, v := range attributes {
			attrs[id] = pricing.AttributeValue{
				OptionIDs: v.OptionIDs,
				Number:    v.Number,
			}
		}
	}
	return pricing.Context{
		ProductID:   productID,
		PartnerID:   partnerID,
		CategoryIDs: categoryIDs,
		BrandID:     brandID,
		Quantity:    quantity,
		OrderValue:  orderValue,
		TargetGroup: targetGroup,
		BasePrice:   basePrice,
		CostPrice:   costPrice,
		RetailPrice: retailPrice,
		Attributes:  attrs,
	}
}
