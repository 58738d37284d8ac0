// Package money formats and rounds rupee amounts. All amounts in the
// ledger are plain float64 values; presentation is always two decimal
// places behind the ₹ glyph.
package money

import (
	"fmt"
	"math"
)

const Glyph = "₹"

// Round2 rounds to two decimal places, half away from zero.
func Round2(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Round(n*100) / 100
}

// Format renders an amount as ₹123.40. Non-finite input renders as zero
// rather than propagating NaN into the output.
func Format(n float64) string {
	return fmt.Sprintf("%s%.2f", Glyph, Round2(n))
}
