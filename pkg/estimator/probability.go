package estimator

import (
	"github.com/shopspring/decimal"
)

// Round1 rounds to one decimal place, half away from zero
func Round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

// Normalize rescales three outcome probabilities so they sum to 100.
// The draw absorbs the rounding residue. A non-positive total is returned unchanged.
func Normalize(home, away, draw float64) (float64, float64, float64) {
	total := home + away + draw
	if total <= 0 {
		return home, away, draw
	}
	hundred := decimal.NewFromInt(100)
	t := decimal.NewFromFloat(total)

	h := decimal.NewFromFloat(home).Mul(hundred).Div(t).Round(1)
	a := decimal.NewFromFloat(away).Mul(hundred).Div(t).Round(1)
	d := hundred.Sub(h).Sub(a)
	if d.IsNegative() {
		if h.GreaterThanOrEqual(a) {
			h = h.Add(d)
		} else {
			a = a.Add(d)
		}
		d = decimal.Zero
	}

	return h.InexactFloat64(), a.InexactFloat64(), d.InexactFloat64()
}
