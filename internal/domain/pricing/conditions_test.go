//go:build unit

package pricing_test

import (
	"testing"

	"pricing-engine/internal/domain/pricing"
	"pricing-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
)

func iptr(v int) *int { return &v }

func TestConditionsMatches(t *testing.T) {
	cases := []struct {
		name       string
		conditions pricing.Conditions
		ctx        pricing.Context
		expected   bool
	}{
		{
			name:       "empty conditions are a catch-all",
			conditions: pricing.Conditions{},
			ctx:        builder.NewContextBuilder().Build(),
			expected:   true,
		},
		{
			name:       "product id in set",
			conditions: pricing.Conditions{ProductIDs: []int64{1, 2}},
			ctx:        builder.NewContextBuilder().WithProductID(2).Build(),
			expected:   true,
		},
		{
			name:       "product id not in set",
			conditions: pricing.Conditions{ProductIDs: []int64{1, 2}},
			ctx:        builder.NewContextBuilder().WithProductID(3).Build(),
			expected:   false,
		},
		{
			name:       "partner required but absent",
			conditions: pricing.Conditions{PartnerIDs: []int64{7}},
			ctx:        builder.NewContextBuilder().Build(),
			expected:   false,
		},
		{
			name:       "partner matches",
			conditions: pricing.Conditions{PartnerIDs: []int64{7}},
			ctx:        builder.NewContextBuilder().WithPartnerID(7).Build(),
			expected:   true,
		},
		{
			name:       "category overlap suffices",
			conditions: pricing.Conditions{CategoryIDs: []int64{10, 20}},
			ctx:        builder.NewContextBuilder().WithCategoryIDs(20, 30).Build(),
			expected:   true,
		},
		{
			name:       "no category overlap",
			conditions: pricing.Conditions{CategoryIDs: []int64{10, 20}},
			ctx:        builder.NewContextBuilder().WithCategoryIDs(30).Build(),
			expected:   false,
		},
		{
			name:       "brand required but absent",
			conditions: pricing.Conditions{BrandIDs: []int64{4}},
			ctx:        builder.NewContextBuilder().Build(),
			expected:   false,
		},
		{
			name:       "brand matches",
			conditions: pricing.Conditions{BrandIDs: []int64{4}},
			ctx:        builder.NewContextBuilder().WithBrandID(4).Build(),
			expected:   true,
		},
		{
			name: "all present conditions must hold",
			conditions: pricing.Conditions{
				ProductIDs:  []int64{1, 2},
				MinQuantity: iptr(5),
			},
			ctx:      builder.NewContextBuilder().WithProductID(3).WithQuantity(10).Build(),
			expected: false,
		},
		{
			name:       "quantity below minimum",
			conditions: pricing.Conditions{MinQuantity: iptr(5)},
			ctx:        builder.NewContextBuilder().WithQuantity(4).Build(),
			expected:   false,
		},
		{
			name:       "quantity bounds inclusive",
			conditions: pricing.Conditions{MinQuantity: iptr(5), MaxQuantity: iptr(5)},
			ctx:        builder.NewContextBuilder().WithQuantity(5).Build(),
			expected:   true,
		},
		{
			name:       "quantity above maximum",
			conditions: pricing.Conditions{MaxQuantity: iptr(5)},
			ctx:        builder.NewContextBuilder().WithQuantity(6).Build(),
			expected:   false,
		},
		{
			name:       "order value below threshold",
			conditions: pricing.Conditions{MinOrderValue: fptr(1000)},
			ctx:        builder.NewContextBuilder().WithOrderValue(999).Build(),
			expected:   false,
		},
		{
			name:       "order value at threshold",
			conditions: pricing.Conditions{MinOrderValue: fptr(1000)},
			ctx:        builder.NewContextBuilder().WithOrderValue(1000).Build(),
			expected:   true,
		},
		{
			name:       "missing order value counts as zero",
			conditions: pricing.Conditions{MinOrderValue: fptr(1)},
			ctx:        builder.NewContextBuilder().Build(),
			expected:   false,
		},
		{
			name: "option attribute intersects",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 1, Type: pricing.AttributeOptions, OptionIDs: []int64{3, 4}},
			}},
			ctx:      builder.NewContextBuilder().WithOptionAttribute(1, 4, 9).Build(),
			expected: true,
		},
		{
			name: "option attribute disjoint",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 1, Type: pricing.AttributeOptions, OptionIDs: []int64{3, 4}},
			}},
			ctx:      builder.NewContextBuilder().WithOptionAttribute(1, 9).Build(),
			expected: false,
		},
		{
			name: "attribute missing from context fails closed",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 1, Type: pricing.AttributeOptions, OptionIDs: []int64{3}},
			}},
			ctx:      builder.NewContextBuilder().Build(),
			expected: false,
		},
		{
			name: "option condition without options passes",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 1, Type: pricing.AttributeOptions},
			}},
			ctx:      builder.NewContextBuilder().WithOptionAttribute(1, 9).Build(),
			expected: true,
		},
		{
			name: "number attribute within bounds",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 2, Type: pricing.AttributeNumber, MinValue: fptr(1), MaxValue: fptr(10)},
			}},
			ctx:      builder.NewContextBuilder().WithNumberAttribute(2, 5).Build(),
			expected: true,
		},
		{
			name: "number attribute out of bounds",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 2, Type: pricing.AttributeNumber, MinValue: fptr(1), MaxValue: fptr(10)},
			}},
			ctx:      builder.NewContextBuilder().WithNumberAttribute(2, 11).Build(),
			expected: false,
		},
		{
			name: "number attribute exact value wins over bounds",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 2, Type: pricing.AttributeNumber, ExactValue: fptr(5), MinValue: fptr(100)},
			}},
			ctx:      builder.NewContextBuilder().WithNumberAttribute(2, 5).Build(),
			expected: true,
		},
		{
			name: "number condition against option value fails",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 2, Type: pricing.AttributeNumber, MinValue: fptr(1)},
			}},
			ctx:      builder.NewContextBuilder().WithOptionAttribute(2, 1).Build(),
			expected: false,
		},
		{
			name: "unknown attribute type places no constraint",
			conditions: pricing.Conditions{Attributes: []pricing.AttributeCondition{
				{AttributeID: 2, Type: "color_space"},
			}},
			ctx:      builder.NewContextBuilder().WithNumberAttribute(2, 5).Build(),
			expected: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, c.conditions.Matches(c.ctx))
		})
	}
}
