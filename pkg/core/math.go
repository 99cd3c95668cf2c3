package core

import "math"

// Clamp restricts x to the range [low, high]
func Clamp(x, low, high float64) float64 {
	if x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// Lerp linearly interpolates between a and b by t
func Lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// Sqr returns x squared
func Sqr(x float64) float64 {
	return x * x
}

// SafeSqrt returns the square root of x, clamping small negative inputs to zero
func SafeSqrt(x float64) float64 {
	return math.Sqrt(math.Max(0, x))
}

// SafeASin returns the arcsine of x with the argument clamped to [-1, 1]
func SafeASin(x float64) float64 {
	return math.Asin(Clamp(x, -1, 1))
}
