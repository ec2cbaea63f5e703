package common

import (
	"math"
)

const TwoPi = 2 * math.Pi

// NormalizeAngle maps a to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// Angle returns the direction of the vector from -> to, in radians,
// counterclockwise from the positive x axis.
func Angle(from, to Vec2) float64 {
	d := to.Sub(from)
	return math.Atan2(d.Y(), d.X())
}

// CwDiff is how far one must rotate clockwise from angle a to reach angle b.
func CwDiff(a, b float64) float64 {
	return NormalizeAngle(a - b)
}

// CcwDiff is how far one must rotate counterclockwise from angle a to reach angle b.
func CcwDiff(a, b float64) float64 {
	return NormalizeAngle(b - a)
}

// AngleDelta is the smallest unsigned difference between two directions.
func AngleDelta(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d > math.Pi {
		d = TwoPi - d
	}
	return d
}

// / Returns the square of the distance between two points.
func VdistSqr(v1, v2 Vec2) float64 {
	d := v2.Sub(v1)
	return d.Dot(d)
}

// / Performs a 'sloppy' colocation check of the specified points.
func Vequal(p0, p1 Vec2, eps float64) bool {
	return VdistSqr(p0, p1) <= eps*eps
}

// / Rounds up to the next power of two.
func NextPow2(v uint32) uint32 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++
	return v
}
