package object

import (
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Launch describes how new fruit enters the field.
type Launch struct {
	SpawnDepth   float64 // Distance below the bottom edge where fruit appears
	LaunchSpeed  float64 // Base upward speed per frame
	LaunchJitter float64 // Extra upward speed, uniform in [0, LaunchJitter)
	LateralSpeed float64 // Horizontal speed, uniform in [-LateralSpeed, LateralSpeed)
	Size         float64 // Sprite diameter
}

// FruitSpawner launches one fruit from below the field every Interval.
// It only runs while it is updated, so the loop controls when spawning happens.
type FruitSpawner struct {
	Interval time.Duration
	Launch   Launch
	rng      *rand.Rand
	elapsed  time.Duration
}

// NewFruitSpawner creates a spawner. A nil rng uses a time-seeded source.
func NewFruitSpawner(interval time.Duration, launch Launch, rng *rand.Rand) *FruitSpawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FruitSpawner{
		Interval: interval,
		Launch:   launch,
		rng:      rng,
	}
}

// Update counts frame time and spawns at most one fruit per tick. Leftover
// time is capped so a stalled frame does not cause a burst.
func (s *FruitSpawner) Update(ctx UpdateContext) (bool, error) {
	if s.Interval <= 0 || ctx.Spawner == nil {
		return false, nil
	}

	s.elapsed += ctx.Delta
	if s.elapsed < s.Interval {
		return false, nil
	}
	s.elapsed -= s.Interval
	if s.elapsed > s.Interval {
		s.elapsed = s.Interval
	}

	ctx.Spawner.Spawn(s.NewFruit(ctx.Screen))
	return false, nil
}

// NewFruit creates a fruit with a randomized launch just below the field.
func (s *FruitSpawner) NewFruit(screen Screen) *Fruit {
	l := s.Launch
	pos := r2.Vec{
		X: s.rng.Float64() * float64(screen.Width),
		Y: float64(screen.Height) + l.SpawnDepth,
	}
	vel := r2.Vec{
		X: (s.rng.Float64()*2 - 1) * l.LateralSpeed,
		Y: -(l.LaunchSpeed + s.rng.Float64()*l.LaunchJitter),
	}
	kind := Kind(s.rng.Intn(NumKinds))
	return NewFruit(kind, pos, vel, l.Size)
}

// Draw is a no-op; spawner is not visible.
func (s *FruitSpawner) Draw(_ DrawContext) error {
	return nil
}
