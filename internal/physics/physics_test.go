package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestDistance(t *testing.T) {
	got := Distance(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 4, Y: 5})
	if got != 5 {
		t.Fatalf("Distance = %v, want 5", got)
	}
	if sq := DistanceSquared(r2.Vec{X: 1, Y: 1}, r2.Vec{X: 4, Y: 5}); sq != 25 {
		t.Fatalf("DistanceSquared = %v, want 25", sq)
	}
}

func TestPointInCircleIsStrict(t *testing.T) {
	center := r2.Vec{X: 10, Y: 10}
	if PointInCircle(r2.Vec{X: 13, Y: 14}, center, 5) {
		t.Fatal("point on the boundary must not count as inside")
	}
	if !PointInCircle(r2.Vec{X: 13, Y: 13.9}, center, 5) {
		t.Fatal("point just inside the boundary should count")
	}
}

func TestCirclesOverlap(t *testing.T) {
	if !CirclesOverlap(r2.Vec{}, 2, r2.Vec{X: 3}, 1.5) {
		t.Fatal("expected overlap")
	}
	if CirclesOverlap(r2.Vec{}, 1, r2.Vec{X: 3}, 1) {
		t.Fatal("expected no overlap")
	}
}

func TestLerp(t *testing.T) {
	got := Lerp(r2.Vec{X: 0, Y: 10}, r2.Vec{X: 10, Y: 0}, 0.2)
	if math.Abs(got.X-2) > 1e-12 || math.Abs(got.Y-8) > 1e-12 {
		t.Fatalf("Lerp = %+v, want {2 8}", got)
	}
}
