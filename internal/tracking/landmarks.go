// Package tracking turns face-mesh landmarks streamed from a browser into
// cursor and blink signals for the game loop.
package tracking

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Face mesh landmark indices following the MediaPipe FaceMesh convention.
const (
	NoseTip = 1

	LeftEyeOuter  = 33
	LeftEyeUpper1 = 160
	LeftEyeUpper2 = 158
	LeftEyeInner  = 133
	LeftEyeLower2 = 153
	LeftEyeLower1 = 144
)

// LeftEye lists the six contour points used for the eye aspect ratio, in
// p0..p5 order: outer corner, two upper lid points, inner corner, two lower
// lid points.
var LeftEye = [6]int{LeftEyeOuter, LeftEyeUpper1, LeftEyeUpper2, LeftEyeInner, LeftEyeLower2, LeftEyeLower1}

// Tracked lists every landmark the adapter reads.
var Tracked = append([]int{NoseTip}, LeftEye[:]...)

// Point is a normalized landmark position, both axes in [0, 1].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts the point to a vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Frame is one tracker result for at most one face. A frame with no
// landmarks means no face was found.
type Frame struct {
	Landmarks map[int]Point `json:"landmarks"`
}

// lookup returns the landmarks at idx, failing if any is missing or not finite.
func (f *Frame) lookup(idx ...int) ([]Point, bool) {
	if f == nil || len(f.Landmarks) == 0 {
		return nil, false
	}
	pts := make([]Point, len(idx))
	for i, n := range idx {
		p, ok := f.Landmarks[n]
		if !ok || !p.finite() {
			return nil, false
		}
		pts[i] = p
	}
	return pts, true
}

// EyeAspectRatio computes (|p1-p5| + |p2-p4|) / (2|p0-p3|). It fails when
// the eye has no width.
func EyeAspectRatio(eye [6]Point) (float64, bool) {
	width := r2.Norm(r2.Sub(eye[0].Vec(), eye[3].Vec()))
	if width < 1e-9 {
		return 0, false
	}
	v1 := r2.Norm(r2.Sub(eye[1].Vec(), eye[5].Vec()))
	v2 := r2.Norm(r2.Sub(eye[2].Vec(), eye[4].Vec()))
	return (v1 + v2) / (2 * width), true
}
