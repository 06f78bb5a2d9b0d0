package tracking

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Signal is what one tracker frame means to the game.
type Signal struct {
	Target r2.Vec  // Cursor target in field units
	EAR    float64 // Eye aspect ratio, zero when the eye was unusable
	Blink  bool    // EAR fell below the threshold
}

// Adapter maps normalized landmarks onto the play field. The camera image is
// mirrored so moving your head right moves the cursor right.
type Adapter struct {
	Width          float64
	Height         float64
	BlinkThreshold float64
}

// NewAdapter creates an adapter for a width x height field.
func NewAdapter(width, height int, blinkThreshold float64) Adapter {
	return Adapter{
		Width:          float64(width),
		Height:         float64(height),
		BlinkThreshold: blinkThreshold,
	}
}

// Interpret derives a signal from frame. It returns false when the frame has
// no usable nose landmark; such a frame changes nothing. An unusable eye
// still yields a target, but never a blink.
func (a Adapter) Interpret(frame *Frame) (Signal, bool) {
	nose, ok := frame.lookup(NoseTip)
	if !ok {
		return Signal{}, false
	}
	sig := Signal{
		Target: r2.Vec{
			X: (1 - nose[0].X) * a.Width,
			Y: nose[0].Y * a.Height,
		},
	}

	pts, ok := frame.lookup(LeftEye[:]...)
	if !ok {
		return sig, true
	}
	var eye [6]Point
	copy(eye[:], pts)
	if ear, ok := EyeAspectRatio(eye); ok {
		sig.EAR = ear
		sig.Blink = ear < a.BlinkThreshold
	}
	return sig, true
}
