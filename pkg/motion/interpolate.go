package motion

import "math"

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Interpolate maps x through the piecewise-linear curve (in[i] -> out[i]),
// clamping outside the input range. in must be strictly increasing and the
// same length as out.
func Interpolate(x float64, in, out []float64) float64 {
	n := len(in)
	if n == 0 || n != len(out) {
		return 0
	}
	if x <= in[0] {
		return out[0]
	}
	if x >= in[n-1] {
		return out[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= in[i] {
			t := (x - in[i-1]) / (in[i] - in[i-1])
			return Lerp(out[i-1], out[i], t)
		}
	}
	return out[n-1]
}
