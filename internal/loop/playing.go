package loop

import (
	"slices"
	"time"

	"github.com/tomz197/faceslice/internal/audio"
	"github.com/tomz197/faceslice/internal/draw"
	"github.com/tomz197/faceslice/internal/input"
	"github.com/tomz197/faceslice/internal/loop/config"
	"github.com/tomz197/faceslice/internal/object"
	"github.com/tomz197/faceslice/internal/physics"
	"github.com/tomz197/faceslice/internal/recipe"
	"gonum.org/v1/gonum/spatial/r2"
)

// Step advances the game by one frame: input, tracking, cursor, then the
// mode's update. The slice window ticks last, after hit testing.
func (s *State) Step(delta time.Duration, in input.Input) error {
	s.Frame++
	s.HandleInput(in)
	s.applyTracking()
	s.Cursor.Step()

	ctx := s.UpdateContext(delta)
	switch s.GameState {
	case GameStateIntro:
		ended, err := s.Intro.Update(ctx)
		if err != nil {
			return err
		}
		if ended {
			s.IntroEnded()
		}
	case GameStatePlaying:
		if err := s.updateObjects(ctx, false); err != nil {
			return err
		}
		s.checkSlices()
	default:
		// Leftover juice keeps falling behind the end screens.
		if err := s.updateObjects(ctx, true); err != nil {
			return err
		}
	}
	s.FlushSpawned()

	s.Slice.Tick()
	return nil
}

// HandleInput applies keyboard and mouse input for one frame.
func (s *State) HandleInput(in input.Input) {
	if in.Click {
		s.Click()
	}
	if in.Nudged() {
		step := s.Variant.Cursor.Nudge
		var d r2.Vec
		if in.Left {
			d.X -= step
		}
		if in.Right {
			d.X += step
		}
		if in.Up {
			d.Y -= step
		}
		if in.Down {
			d.Y += step
		}
		s.Cursor.Nudge(d, s.Screen)
	}
	if in.Blink {
		s.Blink()
	}
}

// Blink opens a slice window unless one is still running.
func (s *State) Blink() {
	if s.Slice.Arm(s.Variant.Slice.Frames) && s.GameState == GameStatePlaying {
		s.round.windows++
	}
}

// applyTracking consumes at most one tracker frame. Frames without a usable
// face change nothing.
func (s *State) applyTracking() {
	if s.Mailbox == nil {
		return
	}
	frame := s.Mailbox.Take()
	if frame == nil {
		return
	}
	sig, ok := s.Adapter.Interpret(frame)
	if !ok {
		return
	}
	s.Cursor.SetTarget(s.Screen.Clamp(sig.Target))
	if sig.Blink {
		s.Blink()
	}
}

// updateObjects updates all objects and removes any that request removal.
// With effectsOnly set, fruit and the spawner are frozen.
func (s *State) updateObjects(ctx object.UpdateContext, effectsOnly bool) error {
	kept := s.Objects[:0] // reuse backing array
	for _, obj := range s.Objects {
		if effectsOnly {
			if _, ok := obj.(*object.Particle); !ok {
				kept = append(kept, obj)
				continue
			}
		}
		remove, err := obj.Update(ctx)
		if err != nil {
			return err
		}
		if remove {
			object.ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	// Clear the tail so dropped objects can be collected.
	clear(s.Objects[len(kept):])
	s.Objects = kept
	return nil
}

// Hit reports whether f lies within slicing reach of the cursor.
func (s *State) Hit(f *object.Fruit) bool {
	return physics.PointInCircle(f.Pos, s.Cursor.Pos, f.Radius()+s.Variant.Slice.Reach)
}

// checkSlices cuts every fruit under the cursor while a slice window is
// open, in list order. Once a cut ends the round, the rest of the pass is
// skipped.
func (s *State) checkSlices() {
	if !s.Slice.Active {
		return
	}
	for i := 0; i < len(s.Objects); i++ {
		if s.GameState != GameStatePlaying {
			return
		}
		f, ok := s.Objects[i].(*object.Fruit)
		if !ok || !s.Hit(f) {
			continue
		}
		s.Objects = slices.Delete(s.Objects, i, i+1)
		i--
		s.cut(f)
	}
}

// cut judges one sliced fruit against the recipe.
func (s *State) cut(f *object.Fruit) {
	switch s.Progress.Cut(f.Kind) {
	case recipe.VerdictFail:
		if f.Kind.IsHazard() {
			object.SpawnExplosion(f.Pos, config.ExplosionParticles, config.ExplosionSpeed, config.ExplosionLife, s)
		} else {
			s.splash(f)
		}
		s.fail(f.Kind)
	case recipe.VerdictCut:
		s.Score++
		s.splash(f)
		s.Sink.Play(audio.CueSlice)
	case recipe.VerdictComplete:
		s.Score++
		s.splash(f)
		s.Sink.Play(audio.CueSlice)
		s.complete()
	}
}

func (s *State) splash(f *object.Fruit) {
	sprite := f.Kind.Sprite()
	colors := []draw.Color{sprite.Body, sprite.Body, sprite.Accent, draw.ColorSoftWhite}
	object.SpawnSplash(f.Pos, config.SplashParticles, config.SplashSpeed, config.SplashLife, colors, s)
}
