package loop

import (
	"math"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/tomz197/faceslice/internal/audio"
	"github.com/tomz197/faceslice/internal/config"
	"github.com/tomz197/faceslice/internal/input"
	"github.com/tomz197/faceslice/internal/object"
	"github.com/tomz197/faceslice/internal/tracking"
	"gonum.org/v1/gonum/spatial/r2"
)

const frameDelta = time.Second / 60

// testVariant builds a still world: no gravity and no spawning, so fruit
// stays exactly where a test puts it.
func testVariant(t *testing.T, progression bool, levels ...map[string]int) *config.Variant {
	t.Helper()
	v := &config.Variant{
		Name:        "test",
		Title:       "TEST",
		Levels:      levels,
		Progression: progression,
		Music:       true,
		Field:       config.FieldConfig{Width: 160, Height: 90},
		Spawn:       config.SpawnConfig{Interval: time.Hour, MinInterval: time.Hour},
		Physics:     config.PhysicsConfig{CullMargin: 12, FruitSize: 10},
		Slice:       config.SliceConfig{Reach: 15, Frames: 20, BlinkThreshold: 0.23},
		Cursor:      config.CursorConfig{Smoothing: 1, Nudge: 3},
		Intro:       config.IntroConfig{Duration: 100 * time.Millisecond},
	}
	if err := v.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return v
}

// playingState returns a state that has clicked through the intro.
func playingState(t *testing.T, v *config.Variant, opts StateOptions) *State {
	t.Helper()
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(1))
	}
	s := NewState(v, opts)
	s.Click()
	s.IntroEnded()
	if s.GameState != GameStatePlaying {
		t.Fatalf("GameState = %v, want %v", s.GameState, GameStatePlaying)
	}
	return s
}

// placeFruit puts a still fruit of kind under the cursor.
func placeFruit(s *State, kind object.Kind) *object.Fruit {
	f := object.NewFruit(kind, s.Cursor.Pos, r2.Vec{}, s.Variant.Physics.FruitSize)
	s.Objects = append(s.Objects, f)
	return f
}

// sliceKind places one fruit under the cursor and runs a frame with the
// slice window open.
func sliceKind(t *testing.T, s *State, kind object.Kind) {
	t.Helper()
	placeFruit(s, kind)
	in := input.Input{Blink: !s.Slice.Active}
	if err := s.Step(frameDelta, in); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
}

func countKind(s *State, kind object.Kind) int {
	n := 0
	for _, f := range s.Fruits() {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

func TestNoSliceWithoutBlink(t *testing.T) {
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{})
	placeFruit(s, object.KindMango)
	placeFruit(s, object.KindBomb)

	for i := 0; i < 30; i++ {
		if err := s.Step(frameDelta, input.Input{}); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if got := len(s.Fruits()); got != 2 {
		t.Fatalf("fruits = %d, want 2", got)
	}
	if s.Score != 0 || s.GameState != GameStatePlaying {
		t.Fatalf("score = %d, state = %v, want 0, playing", s.Score, s.GameState)
	}
}

func TestLegalCutScoresOne(t *testing.T) {
	rec := &audio.Recorder{}
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{Sink: rec})

	sliceKind(t, s, object.KindMango)

	if s.Score != 1 {
		t.Fatalf("Score = %d, want 1", s.Score)
	}
	if got := s.Progress.Count(object.KindMango); got != 1 {
		t.Fatalf("Count(mango) = %d, want 1", got)
	}
	if got := countKind(s, object.KindMango); got != 0 {
		t.Fatalf("mangos left = %d, want 0", got)
	}
	if s.GameState != GameStatePlaying {
		t.Fatalf("GameState = %v, want %v", s.GameState, GameStatePlaying)
	}
	if !slices.Contains(rec.Cues, audio.CueSlice) {
		t.Fatalf("cues = %v, want a slice cue", rec.Cues)
	}
}

func TestRecipeCompletes(t *testing.T) {
	rec := &audio.Recorder{}
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2, "apple": 1}, map[string]int{"banana": 1}), StateOptions{Sink: rec})

	for i, k := range []object.Kind{object.KindMango, object.KindApple, object.KindMango} {
		sliceKind(t, s, k)
		if i < 2 && s.GameState != GameStatePlaying {
			t.Fatalf("after cut %d GameState = %v, want %v", i+1, s.GameState, GameStatePlaying)
		}
	}

	if s.GameState != GameStateLevelComplete {
		t.Fatalf("GameState = %v, want %v", s.GameState, GameStateLevelComplete)
	}
	if s.Score != 3 {
		t.Fatalf("Score = %d, want 3", s.Score)
	}

	want := []audio.Cue{
		audio.CueMusicStart,
		audio.CueSlice, audio.CueSlice, audio.CueSlice,
		audio.CueMusicStop, audio.CueWin,
	}
	if !slices.Equal(rec.Cues, want) {
		t.Fatalf("cues = %v, want %v", rec.Cues, want)
	}
}

func TestOverCutFails(t *testing.T) {
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 1, "apple": 1}), StateOptions{})

	sliceKind(t, s, object.KindMango)
	sliceKind(t, s, object.KindMango)

	if s.GameState != GameStateGameOver {
		t.Fatalf("GameState = %v, want %v", s.GameState, GameStateGameOver)
	}
	if s.Score != 1 {
		t.Fatalf("Score = %d, want 1", s.Score)
	}
	if got := s.Progress.Count(object.KindMango); got != 1 {
		t.Fatalf("Count(mango) = %d, want 1", got)
	}
	if s.Cause != object.KindMango {
		t.Fatalf("Cause = %v, want mango", s.Cause)
	}
}

func TestCompletedRecipeIgnoresLaterCuts(t *testing.T) {
	// With a one-fruit recipe the first cut already wins.
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 1}), StateOptions{})

	sliceKind(t, s, object.KindMango)
	if s.GameState != GameStateLevelComplete || s.Score != 1 {
		t.Fatalf("state = %v, score = %d, want level-complete, 1", s.GameState, s.Score)
	}

	// Further slices change nothing outside play.
	sliceKind(t, s, object.KindMango)
	if s.GameState != GameStateLevelComplete || s.Score != 1 {
		t.Fatalf("state = %v, score = %d, want level-complete, 1", s.GameState, s.Score)
	}
}

func TestFailingCuts(t *testing.T) {
	tests := []struct {
		name string
		kind object.Kind
	}{
		{"bomb", object.KindBomb},
		{"not in recipe", object.KindBanana},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &audio.Recorder{}
			s := playingState(t, testVariant(t, true, map[string]int{"mango": 2, "apple": 1}), StateOptions{Sink: rec})
			sliceKind(t, s, object.KindMango)

			sliceKind(t, s, tt.kind)

			if s.GameState != GameStateGameOver {
				t.Fatalf("GameState = %v, want %v", s.GameState, GameStateGameOver)
			}
			if s.Score != 1 {
				t.Fatalf("Score = %d, want 1", s.Score)
			}
			if s.Cause != tt.kind {
				t.Fatalf("Cause = %v, want %v", s.Cause, tt.kind)
			}
			if got := countKind(s, tt.kind); got != 0 {
				t.Fatalf("%v left = %d, want 0", tt.kind, got)
			}
			if rec.Cues[len(rec.Cues)-1] != audio.CueBomb {
				t.Fatalf("last cue = %v, want %v", rec.Cues[len(rec.Cues)-1], audio.CueBomb)
			}
		})
	}
}

func TestBombExplodes(t *testing.T) {
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 1}), StateOptions{})
	sliceKind(t, s, object.KindBomb)

	particles := 0
	for _, obj := range s.Objects {
		if _, ok := obj.(*object.Particle); ok {
			particles++
		}
	}
	if particles == 0 {
		t.Fatal("bomb cut spawned no particles")
	}
}

func TestPassStopsWhenRoundEnds(t *testing.T) {
	t.Run("fail", func(t *testing.T) {
		s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{})
		placeFruit(s, object.KindBomb)
		sliceKind(t, s, object.KindMango)

		if s.GameState != GameStateGameOver || s.Score != 0 {
			t.Fatalf("state = %v, score = %d, want game-over, 0", s.GameState, s.Score)
		}
		if got := countKind(s, object.KindMango); got != 1 {
			t.Fatalf("mangos left = %d, want 1", got)
		}
	})

	t.Run("complete", func(t *testing.T) {
		s := playingState(t, testVariant(t, true, map[string]int{"mango": 1}), StateOptions{})
		placeFruit(s, object.KindMango)
		sliceKind(t, s, object.KindBomb)

		if s.GameState != GameStateLevelComplete || s.Score != 1 {
			t.Fatalf("state = %v, score = %d, want level-complete, 1", s.GameState, s.Score)
		}
		if got := countKind(s, object.KindBomb); got != 1 {
			t.Fatalf("bombs left = %d, want 1", got)
		}
	})
}

func TestOneBlinkCutsOverlappingFruit(t *testing.T) {
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 3}), StateOptions{})
	placeFruit(s, object.KindMango)
	placeFruit(s, object.KindMango)

	if err := s.Step(frameDelta, input.Input{Blink: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	if s.Score != 2 {
		t.Fatalf("Score = %d, want 2", s.Score)
	}
	if got := s.Progress.Count(object.KindMango); got != 2 {
		t.Fatalf("Count(mango) = %d, want 2", got)
	}
	if got := countKind(s, object.KindMango); got != 0 {
		t.Fatalf("mangos left = %d, want 0", got)
	}
	if s.GameState != GameStatePlaying {
		t.Fatalf("GameState = %v, want %v", s.GameState, GameStatePlaying)
	}
	if s.round.windows != 1 {
		t.Fatalf("windows = %d, want 1", s.round.windows)
	}
}

func TestBlinkWhileWindowActiveIgnored(t *testing.T) {
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{})

	if err := s.Step(frameDelta, input.Input{Blink: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := s.Step(frameDelta, input.Input{}); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	before := s.Slice.Timer

	if err := s.Step(frameDelta, input.Input{Blink: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Slice.Timer != before-1 {
		t.Fatalf("Timer = %d, want %d", s.Slice.Timer, before-1)
	}
	if s.round.windows != 1 {
		t.Fatalf("windows = %d, want 1", s.round.windows)
	}
}

func TestBlinkOnLastWindowFrameIgnored(t *testing.T) {
	v := testVariant(t, true, map[string]int{"mango": 2})
	s := playingState(t, v, StateOptions{})

	if err := s.Step(frameDelta, input.Input{Blink: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	open := 1
	for s.Slice.Timer > 0 {
		if err := s.Step(frameDelta, input.Input{}); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		open++
	}
	if !s.Slice.Active {
		t.Fatal("window closed before its last frame")
	}

	// The last open frame still cuts but does not take a new blink.
	if err := s.Step(frameDelta, input.Input{Blink: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	open++
	if s.Slice.Active {
		t.Fatalf("window still active after %d frames, want %d", open, v.Slice.Frames+1)
	}
	if open != v.Slice.Frames+1 {
		t.Fatalf("window open for %d frames, want %d", open, v.Slice.Frames+1)
	}
	if s.round.windows != 1 {
		t.Fatalf("windows = %d, want 1", s.round.windows)
	}

	if err := s.Step(frameDelta, input.Input{Blink: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !s.Slice.Active || s.round.windows != 2 {
		t.Fatalf("active = %v, windows = %d, want a fresh window", s.Slice.Active, s.round.windows)
	}
}

func TestSliceWindowCloses(t *testing.T) {
	v := testVariant(t, true, map[string]int{"mango": 2})
	s := playingState(t, v, StateOptions{})

	if err := s.Step(frameDelta, input.Input{Blink: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	for i := 0; i < v.Slice.Frames+1; i++ {
		if err := s.Step(frameDelta, input.Input{}); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if s.Slice.Active {
		t.Fatal("slice window still active")
	}

	placeFruit(s, object.KindMango)
	if err := s.Step(frameDelta, input.Input{}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Score != 0 {
		t.Fatalf("Score = %d, want 0", s.Score)
	}
}

func TestHitUsesReach(t *testing.T) {
	v := testVariant(t, true, map[string]int{"mango": 2})
	s := playingState(t, v, StateOptions{})
	limit := v.Physics.FruitSize/2 + v.Slice.Reach

	near := object.NewFruit(object.KindMango, r2.Add(s.Cursor.Pos, r2.Vec{X: limit - 0.5}), r2.Vec{}, v.Physics.FruitSize)
	far := object.NewFruit(object.KindMango, r2.Add(s.Cursor.Pos, r2.Vec{Y: limit + 0.5}), r2.Vec{}, v.Physics.FruitSize)
	if !s.Hit(near) {
		t.Fatal("Hit(near) = false, want true")
	}
	if s.Hit(far) {
		t.Fatal("Hit(far) = true, want false")
	}
}

func TestKeyboardNudgeMovesCursor(t *testing.T) {
	v := testVariant(t, true, map[string]int{"mango": 2})
	s := playingState(t, v, StateOptions{})
	start := s.Cursor.Pos

	if err := s.Step(frameDelta, input.Input{Right: true, Up: true}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	want := r2.Add(start, r2.Vec{X: v.Cursor.Nudge, Y: -v.Cursor.Nudge})
	if r2.Norm(r2.Sub(s.Cursor.Pos, want)) > 1e-9 {
		t.Fatalf("cursor = %v, want %v", s.Cursor.Pos, want)
	}
}

// openEye returns a face frame with the nose at (x, y) and the left eye
// either open or shut.
func openEye(x, y float64, open bool) *tracking.Frame {
	lid := 0.02
	if !open {
		lid = 0
	}
	return &tracking.Frame{Landmarks: map[int]tracking.Point{
		tracking.NoseTip:       {X: x, Y: y},
		tracking.LeftEyeOuter:  {X: 0.40, Y: 0.40},
		tracking.LeftEyeUpper1: {X: 0.42, Y: 0.40 - lid},
		tracking.LeftEyeUpper2: {X: 0.44, Y: 0.40 - lid},
		tracking.LeftEyeInner:  {X: 0.46, Y: 0.40},
		tracking.LeftEyeLower2: {X: 0.44, Y: 0.40 + lid},
		tracking.LeftEyeLower1: {X: 0.42, Y: 0.40 + lid},
	}}
}

func TestTrackerFrameMovesCursor(t *testing.T) {
	mb := &tracking.Mailbox{}
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{Mailbox: mb})

	mb.Publish(openEye(0.25, 0.5, true))
	if err := s.Step(frameDelta, input.Input{}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}

	// Mirrored horizontally
	want := r2.Vec{X: 120, Y: 45}
	if math.Abs(s.Cursor.Target.X-want.X) > 1e-9 || math.Abs(s.Cursor.Target.Y-want.Y) > 1e-9 {
		t.Fatalf("Target = %v, want %v", s.Cursor.Target, want)
	}
	if s.Slice.Active {
		t.Fatal("open eye armed a slice window")
	}
	if mb.Take() != nil {
		t.Fatal("frame was not consumed")
	}
}

func TestTrackerBlinkSlices(t *testing.T) {
	mb := &tracking.Mailbox{}
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{Mailbox: mb})
	placeFruit(s, object.KindMango)

	mb.Publish(openEye(0.5, 0.5, false))
	if err := s.Step(frameDelta, input.Input{}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Score != 1 {
		t.Fatalf("Score = %d, want 1", s.Score)
	}
}

func TestFaceLostKeepsCursor(t *testing.T) {
	mb := &tracking.Mailbox{}
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{Mailbox: mb})
	s.Cursor.SetTarget(r2.Vec{X: 10, Y: 10})

	mb.Publish(&tracking.Frame{})
	if err := s.Step(frameDelta, input.Input{}); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if s.Cursor.Target != (r2.Vec{X: 10, Y: 10}) {
		t.Fatalf("Target = %v, want unchanged", s.Cursor.Target)
	}
}

func TestFieldStaysBounded(t *testing.T) {
	v, err := config.LoadVariant("classic", "")
	if err != nil {
		t.Fatalf("LoadVariant() error = %v", err)
	}
	s := playingState(t, v, StateOptions{})

	// Five simulated minutes without slicing
	peak := 0
	for i := 0; i < 60*60*5; i++ {
		if err := s.Step(frameDelta, input.Input{}); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		peak = max(peak, len(s.Objects))
	}
	if s.round.spawned < 100 {
		t.Fatalf("spawned = %d, want at least 100", s.round.spawned)
	}
	if peak > 20 {
		t.Fatalf("peak objects = %d, want at most 20", peak)
	}
}

func TestEndScreensFreezeFruit(t *testing.T) {
	s := playingState(t, testVariant(t, true, map[string]int{"mango": 2}), StateOptions{})
	f := object.NewFruit(object.KindApple, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 1}, 10)
	s.Objects = append(s.Objects, f)
	sliceKind(t, s, object.KindBomb)

	pos := f.Pos
	for i := 0; i < 10; i++ {
		if err := s.Step(frameDelta, input.Input{}); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if f.Pos != pos {
		t.Fatalf("fruit moved on the game over screen: %v -> %v", pos, f.Pos)
	}
}
