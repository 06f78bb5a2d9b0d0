package object

import (
	"math"

	"github.com/tomz197/faceslice/internal/draw"
	"gonum.org/v1/gonum/spatial/r2"
)

// Fruit is a falling object: an edible kind or the hazard.
type Fruit struct {
	Pos  r2.Vec  // Center position
	Vel  r2.Vec  // Velocity per frame
	Kind Kind    // Type tag
	Size float64 // Sprite diameter
}

// NewFruit creates a fruit at pos moving with vel.
func NewFruit(kind Kind, pos, vel r2.Vec, size float64) *Fruit {
	return &Fruit{
		Pos:  pos,
		Vel:  vel,
		Kind: kind,
		Size: size,
	}
}

// Radius returns half the sprite size.
func (f *Fruit) Radius() float64 {
	return f.Size / 2
}

// Update applies gravity, advances the position, and drops fruit that has
// fallen out of play. A fruit still rising from below the field is kept.
func (f *Fruit) Update(ctx UpdateContext) (bool, error) {
	f.Vel.Y += ctx.Physics.Gravity
	f.Pos = r2.Add(f.Pos, f.Vel)
	return f.OutOfPlay(ctx.Screen, ctx.Physics.CullMargin), nil
}

// OutOfPlay reports whether the fruit left the field for good: past either
// side, or below the bottom while falling.
func (f *Fruit) OutOfPlay(screen Screen, margin float64) bool {
	w := float64(screen.Width)
	h := float64(screen.Height)
	if f.Pos.X < -margin || f.Pos.X > w+margin {
		return true
	}
	return f.Vel.Y > 0 && f.Pos.Y > h+margin
}

// Draw renders the fruit's sprite centered on its position.
func (f *Fruit) Draw(ctx DrawContext) error {
	c := ctx.Canvas
	x, y := f.Pos.X, f.Pos.Y
	r := f.Radius()
	sprite := f.Kind.Sprite()

	switch sprite.Shape {
	case ShapeOval:
		rx, ry := r, r*0.78
		c.FillShape(x, y, r, sprite.Body, func(dx, dy float64) bool {
			return (dx*dx)/(rx*rx)+(dy*dy)/(ry*ry) <= 1
		})
		c.FillCircle(x+r*0.35, y-ry, r*0.25, sprite.Accent)
	case ShapeRound:
		c.FillCircle(x, y, r*0.92, sprite.Body)
		c.DrawLine(draw.Point{X: x, Y: y - r*0.9}, draw.Point{X: x + r*0.2, Y: y - r*1.2}, sprite.Accent)
		c.FillCircle(x+r*0.4, y-r*1.05, r*0.2, sprite.Accent)
	case ShapeCrescent:
		// Disc minus an offset disc leaves a banana-like arc.
		cut := r2.Vec{X: r * 0.45, Y: -r * 0.45}
		inner := r * 0.85
		c.FillShape(x, y, r, sprite.Body, func(dx, dy float64) bool {
			if dx*dx+dy*dy > r*r {
				return false
			}
			ox, oy := dx-cut.X, dy-cut.Y
			return ox*ox+oy*oy > inner*inner
		})
		c.FillCircle(x-r*0.7, y+r*0.55, r*0.15, sprite.Accent)
	case ShapeBomb:
		c.FillCircle(x, y+r*0.1, r*0.8, sprite.Body)
		fuseTop := draw.Point{X: x + r*0.5, Y: y - r*0.95}
		c.DrawLine(draw.Point{X: x, Y: y - r*0.65}, fuseTop, draw.ColorSoftWhite)
		flicker := 0.15 + 0.1*math.Abs(math.Sin(f.Pos.Y))
		c.FillCircle(fuseTop.X, fuseTop.Y, r*flicker+0.5, sprite.Accent)
	}
	return nil
}
