// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FullScale returns the magnitude that maps to 1.0 for a signed integer
// sample of the given bit width (2^(bits-1)).
func FullScale(bits int) float64 {
	return math.Ldexp(1, bits-1)
}

// Saturate clips v to the signed range of a bits-wide integer.
func Saturate(v int64, bits int) int64 {
	hi := int64(1)<<(bits-1) - 1
	lo := -hi - 1
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// FloatToInt scales x by the full scale of bits, rounds to the nearest
// integer (ties to even) and saturates to the destination range.
func FloatToInt(x float64, bits int) int64 {
	if math.IsNaN(x) {
		return 0
	}
	scaled := math.RoundToEven(x * FullScale(bits))
	// Compare in float space first: converting an out-of-range float to
	// int64 is implementation defined.
	hi := FullScale(bits) - 1
	if scaled >= hi {
		return int64(hi)
	}
	if scaled <= -FullScale(bits) {
		return -int64(FullScale(bits))
	}
	return Saturate(int64(scaled), bits)
}
