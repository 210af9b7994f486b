package facets

import (
	"math"

	"github.com/shopspring/decimal"
)

// NumericRange is one bucket of a numeric attribute's domain. Label is an
// optional caller-supplied display override.
type NumericRange struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
	Label string
}

// niceSteps are the candidate step mantissas, tried smallest first
var niceSteps = []int64{1, 2, 5}

// AutoRanges splits [lower, upper] into at most maxItems contiguous
// buckets with human-friendly bounds. The step size is the smallest value
// of 1, 2 or 5 times a power of ten that covers the span (with lower
// rounded down and upper rounded up to step multiples) in maxItems
// buckets or fewer. Bounds keep decimal exactness, so an integral domain
// yields integral bounds.
func AutoRanges(lower, upper decimal.Decimal, maxItems int) []NumericRange {
	if lower.Equal(upper) {
		return []NumericRange{{Lower: lower, Upper: upper}}
	}

	rawStep, _ := upper.Sub(lower).Div(decimal.NewFromInt(int64(maxItems))).Float64()
	exp := int32(math.Floor(math.Log10(rawStep)))

	for {
		for _, mantissa := range niceSteps {
			candidate := decimal.New(mantissa, exp)
			if fitsInBuckets(lower, upper, candidate, maxItems) {
				return buildRanges(lower, upper, candidate)
			}
		}
		exp++
	}
}

// fitsInBuckets reports whether the rounded span divides into at most
// maxItems steps.
func fitsInBuckets(lower, upper, step decimal.Decimal, maxItems int) bool {
	lo := lower.Div(step).Floor()
	hi := upper.Div(step).Ceil()
	return hi.Sub(lo).Cmp(decimal.NewFromInt(int64(maxItems))) <= 0
}

func buildRanges(lower, upper, step decimal.Decimal) []NumericRange {
	roundedLower := lower.Div(step).Floor().Mul(step)
	roundedUpper := upper.Div(step).Ceil().Mul(step)

	var out []NumericRange
	for lo := roundedLower; lo.Cmp(roundedUpper) < 0; lo = lo.Add(step) {
		hi := lo.Add(step)
		// clamp the last bucket to the rounded upper edge
		if hi.Cmp(roundedUpper) > 0 {
			hi = roundedUpper
		}
		out = append(out, NumericRange{Lower: lo, Upper: hi})
	}
	return out
}
