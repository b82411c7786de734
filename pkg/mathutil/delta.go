// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
)

// PercentDiff returns (b-a)/a*100. A zero baseline yields 100 when b is
// non-zero and 0 otherwise, so the result is never NaN or infinite.
func PercentDiff(a, b float64) float64 {
	if a != 0 {
		return (b - a) / a * constants.PercentageMultiplier
	}
	if b != 0 {
		return constants.ZeroBaselinePercent
	}
	return 0
}

// RelativeDiff returns |a-b| / max(a, b). Callers must ensure max(a, b)
// is positive.
func RelativeDiff(a, b float64) float64 {
	return math.Abs(a-b) / math.Max(a, b)
}

// IsNegligible reports whether a difference is below the direction tolerance.
func IsNegligible(val float64) bool {
	return math.Abs(val) < constants.DirectionTolerance
}

// WithinTolerance checks if two values differ by strictly less than tolerance.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) < tolerance
}

// Round rounds a value to the given number of decimals.
func Round(val float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(val*p) / p
}

// ValueOrZero dereferences an optional value, treating nil as 0.
func ValueOrZero(val *float64) float64 {
	if val == nil {
		return 0
	}
	return *val
}
