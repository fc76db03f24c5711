package cart

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// FreeShippingStatus reports progress toward the free-shipping subtotal.
type FreeShippingStatus struct {
	Qualifies       bool            `json:"qualifies"`
	Remaining       decimal.Decimal `json:"remaining"`
	ProgressPercent float64         `json:"progress_percent"`
}

// EvaluateFreeShipping compares a cart subtotal against the configured
// threshold. A threshold of zero or less means shipping is always free.
func EvaluateFreeShipping(subtotal, threshold decimal.Decimal) FreeShippingStatus {
	if threshold.LessThanOrEqual(decimal.Zero) {
		return FreeShippingStatus{
			Qualifies:       true,
			Remaining:       decimal.Zero,
			ProgressPercent: 100,
		}
	}

	remaining := threshold.Sub(subtotal)
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}

	progress, _ := subtotal.Div(threshold).Mul(oneHundred).Float64()
	if progress > 100 {
		progress = 100
	}

	return FreeShippingStatus{
		Qualifies:       subtotal.GreaterThanOrEqual(threshold),
		Remaining:       remaining,
		ProgressPercent: progress,
	}
}
