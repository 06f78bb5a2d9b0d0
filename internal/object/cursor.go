package object

import (
	"math"

	"github.com/tomz197/faceslice/internal/draw"
	"github.com/tomz197/faceslice/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// Cursor is the face-driven pointer. Target is the raw input position;
// Pos trails it by exponential smoothing so tracker jitter is damped.
type Cursor struct {
	Pos       r2.Vec
	Target    r2.Vec
	Smoothing float64 // Fraction of the remaining distance covered per frame, in (0, 1]
}

// NewCursor creates a cursor resting at center.
func NewCursor(center r2.Vec, smoothing float64) *Cursor {
	return &Cursor{
		Pos:       center,
		Target:    center,
		Smoothing: smoothing,
	}
}

// SetTarget replaces the raw target position.
func (c *Cursor) SetTarget(target r2.Vec) {
	c.Target = target
}

// Nudge moves the target by delta, keeping it on the field.
func (c *Cursor) Nudge(delta r2.Vec, screen Screen) {
	c.Target = screen.Clamp(r2.Add(c.Target, delta))
}

// Step moves Pos one frame toward Target.
func (c *Cursor) Step() {
	c.Pos = physics.Lerp(c.Pos, c.Target, c.Smoothing)
}

// FramesToConverge returns how many Step calls bring a cursor that starts
// distance away from a fixed target to within eps of it.
func FramesToConverge(distance, eps, smoothing float64) int {
	if distance <= eps {
		return 0
	}
	if smoothing >= 1 {
		return 1
	}
	if smoothing <= 0 {
		return math.MaxInt
	}
	return int(math.Ceil(math.Log(eps/distance) / math.Log(1-smoothing)))
}

// Draw renders the cursor dot.
func (c *Cursor) Draw(ctx DrawContext) error {
	ctx.Canvas.FillCircle(c.Pos.X, c.Pos.Y, 1.25, draw.ColorWhite)
	return nil
}

// DrawBlade renders the slice reach around the cursor while a slice window is open.
func (c *Cursor) DrawBlade(ctx DrawContext, reach float64) {
	ctx.Canvas.DrawCircle(c.Pos.X, c.Pos.Y, reach, 0.8, draw.ColorCyan)
}
