// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// CubicInterpolate evaluates a Catmull-Rom spline through y0..y3 at x,
// the fractional position between y1 and y2 (0 <= x <= 1).
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}

// CubicAt interpolates plane at the absolute position pos, where plane[0]
// sits at position base. Neighbours outside the plane repeat the edge sample.
func CubicAt(plane []float32, base int64, pos float64) float32 {
	if len(plane) == 0 {
		return 0
	}
	fl := math.Floor(pos)
	i := int64(fl) - base
	at := func(k int64) float32 {
		k = max(0, min(k, int64(len(plane)-1)))
		return plane[k]
	}
	return CubicInterpolate(at(i-1), at(i), at(i+1), at(i+2), float32(pos-fl))
}
