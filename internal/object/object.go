// Package object defines the entities that live on the play field.
package object

import (
	"time"

	"github.com/tomz197/faceslice/internal/draw"
	"gonum.org/v1/gonum/spatial/r2"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Physics holds the per-frame world constants applied to moving objects.
type Physics struct {
	Gravity    float64 // Added to vertical velocity every frame
	CullMargin float64 // Distance beyond the field edge at which objects are dropped
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration // Wall time since the previous frame
	Screen  Screen
	Physics Physics
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // High-resolution canvas (2x vertical)
	Writer *draw.ChunkWriter // Text overlay, drawn after the canvas
}

// Screen is the logical play field. Objects use these units; the canvas
// scales them to whatever terminal is attached.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen builds a Screen with its center precomputed.
func NewScreen(width, height int) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Center returns the field center as a vector.
func (s Screen) Center() r2.Vec {
	return r2.Vec{X: float64(s.Width) / 2, Y: float64(s.Height) / 2}
}

// Clamp restricts p to the field bounds.
func (s Screen) Clamp(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: clampF(p.X, 0, float64(s.Width)),
		Y: clampF(p.Y, 0, float64(s.Height)),
	}
}

// Object is a drawable and updatable game entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Writer for text.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// FilterFruits returns all Fruit objects from the given object slice.
func FilterFruits(objects []Object) []*Fruit {
	var fruits []*Fruit
	for _, obj := range objects {
		if f, ok := obj.(*Fruit); ok {
			fruits = append(fruits, f)
		}
	}
	return fruits
}

func clampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
