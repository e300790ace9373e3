package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Ratio divides num by den. den must be non-zero; callers guarantee it.
func Ratio(num, den float64) float64 {
	return num / den
}

// FlooredRatio divides num by max(den, 1) so an absent or tiny denominator
// never divides by zero.
func FlooredRatio(num, den float64) float64 {
	return num / math.Max(den, 1)
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round rounds v to places decimals, half away from zero. Rounding goes through
// the shortest decimal representation of v so results are stable across runs.
// Non-finite values are returned unchanged.
func Round(v float64, places int32) float64 {
	if !Finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round3 is the precision used for scores and components.
func Round3(v float64) float64 {
	return Round(v, 3)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Logistic returns 1/(1+e^-x), always in [0, 1] for finite x.
func Logistic(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
