package util

import "github.com/shopspring/decimal"

// Round2 rounds v half away from zero to two decimal places, working on the
// shortest decimal form of v: 2.675 rounds to 2.68, not the 2.67 that
// binary half-even rounding yields.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
