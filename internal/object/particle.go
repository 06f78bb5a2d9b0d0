package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/faceslice/internal/draw"
	"gonum.org/v1/gonum/spatial/r2"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived juice droplet or spark.
type Particle struct {
	Pos      r2.Vec
	Vel      r2.Vec
	Life     int     // Frames remaining
	MaxLife  int     // Initial lifetime (for fade calculation)
	Drag     float64 // Velocity kept per frame (1.0 = no drag)
	Color    draw.Color
	Falls    bool // Whether gravity applies
	released bool
}

// NewParticle creates a single particle from the pool.
func NewParticle(pos, vel r2.Vec, life int, col draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		Pos:     pos,
		Vel:     vel,
		Life:    life,
		MaxLife: life,
		Drag:    0.93,
		Color:   col,
		Falls:   true,
	}
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	if p.released {
		return
	}
	p.released = true
	particlePool.Put(p)
}

// SpawnSplash bursts count particles out of pos in random directions.
func SpawnSplash(pos r2.Vec, count int, speed float64, life int, colors []draw.Color, spawner Spawner) {
	if spawner == nil || len(colors) == 0 {
		return
	}

	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rand.Float64())
		// Random lifetime variation (50% to 100%)
		frames := life/2 + rand.Intn(life/2+1)

		vel := r2.Vec{X: math.Cos(angle) * spd, Y: math.Sin(angle) * spd}
		col := colors[rand.Intn(len(colors))]
		spawner.Spawn(NewParticle(pos, vel, frames, col))
	}
}

// SpawnExplosion is a larger, gravity-free burst used for the hazard.
func SpawnExplosion(pos r2.Vec, count int, speed float64, life int, spawner Spawner) {
	if spawner == nil {
		return
	}
	colors := []draw.Color{draw.ColorSpark, draw.ColorYellow, draw.ColorRed, draw.ColorSoftWhite}
	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		spd := speed * (0.3 + rand.Float64())
		vel := r2.Vec{X: math.Cos(angle) * spd, Y: math.Sin(angle) * spd}
		p := NewParticle(pos, vel, life/2+rand.Intn(life/2+1), colors[rand.Intn(len(colors))])
		p.Falls = false
		p.Drag = 0.9
		spawner.Spawn(p)
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	p.Life--
	if p.Life <= 0 {
		return true, nil
	}

	p.Vel = r2.Scale(p.Drag, p.Vel)
	if p.Falls {
		p.Vel.Y += ctx.Physics.Gravity
	}
	p.Pos = r2.Add(p.Pos, p.Vel)

	return false, nil
}

// Draw renders the particle as a pixel on the canvas.
func (p *Particle) Draw(ctx DrawContext) error {
	// Skip faded particles (< 25% lifetime)
	if p.MaxLife > 0 && p.Life*4 < p.MaxLife {
		return nil
	}
	ctx.Canvas.SetFloat(p.Pos.X, p.Pos.Y, p.Color)
	return nil
}
