package game

import "math"

// Clamp restricts v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeAngle wraps angle to (-PI, PI]. Non-finite angles come back
// as NaN.
func NormalizeAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a = math.Pi
	}
	return a
}

// Lerp moves from toward to by fraction t
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

// LerpAngle interpolates between two angles taking the short path.
// The result is not wrapped, so an angle easing past PI keeps growing.
func LerpAngle(from, to, t float64) float64 {
	diff := NormalizeAngle(to - from)
	return from + diff*t
}
