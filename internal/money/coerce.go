package money

import "math"

// CoerceNumericOrZero maps NaN, ±Inf and negative values to 0. Line item
// quantities and prices are never negative, and a half-typed form field must
// not poison a running total.
func CoerceNumericOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// CoerceFinite maps NaN and ±Inf to 0 and keeps the sign otherwise.
func CoerceFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseOrZero is Parse with the coerce policy applied to failures.
func ParseOrZero(s string) float64 {
	v, err := Parse(s)
	if err != nil {
		return 0
	}
	return CoerceNumericOrZero(v)
}
