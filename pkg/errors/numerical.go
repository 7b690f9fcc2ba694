package errors

import (
	"math"
)

// CheckNumericalStability returns an error if any value is NaN or Inf.
func CheckNumericalStability(operation string, values []float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value})
	}
	return nil
}

// SafeDivide performs division with protection against a vanishing
// denominator: the denominator's magnitude is floored at epsilon, keeping
// its sign, so feature responses stay finite.
func SafeDivide(numerator, denominator, epsilon float64) float64 {
	if math.Abs(denominator) < epsilon {
		if math.Signbit(denominator) {
			return numerator / -epsilon
		}
		return numerator / epsilon
	}
	return numerator / denominator
}

// StabilizeLog computes log2 with protection against log(0).
// Returns log2(max(value, epsilon)).
func StabilizeLog(value, epsilon float64) float64 {
	if value < epsilon {
		return math.Log2(epsilon)
	}
	return math.Log2(value)
}

// ClipValue clips a value to the range [lo, hi].
func ClipValue(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
