package pricing

import "math"

// RoundCharm snaps a price to the market-convention charm ending for its
// band: round up to the band's step, then back off one cent (one unit for
// the large bands). Deterministic, idempotent and total. Non-positive
// inputs clamp to zero; the band table is only meaningful for positive
// prices.
func RoundCharm(price float64) float64 {
	if price <= 0 {
		return 0
	}
	switch {
	case price < 100:
		return math.Ceil(price) - 0.01
	case price < 500:
		return math.Ceil(price/5)*5 - 0.01
	case price <= 1000:
		// 1000 belongs to the step-10 band: the step-100 band would map it
		// to 999, which re-rounds to 999.99 and breaks idempotence.
		return math.Ceil(price/10)*10 - 0.01
	case price < 10000:
		return math.Ceil(price/100)*100 - 1
	default:
		return math.Ceil(price/500)*500 - 1
	}
}
