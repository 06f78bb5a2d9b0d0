// Package physics provides distance and overlap tests on 2D vectors.
package physics

import "gonum.org/v1/gonum/spatial/r2"

// Distance calculates the Euclidean distance between two points.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b r2.Vec) float64 {
	return r2.Norm2(r2.Sub(b, a))
}

// PointInCircle reports whether p lies strictly within radius of center.
func PointInCircle(p, center r2.Vec, radius float64) bool {
	return DistanceSquared(p, center) < radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(a r2.Vec, ra float64, b r2.Vec, rb float64) bool {
	minDist := ra + rb
	return DistanceSquared(a, b) < minDist*minDist
}

// Lerp moves from toward to by fraction t of the remaining distance.
func Lerp(from, to r2.Vec, t float64) r2.Vec {
	return r2.Add(from, r2.Scale(t, r2.Sub(to, from)))
}
