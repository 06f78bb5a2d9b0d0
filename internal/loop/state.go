package loop

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/faceslice/internal/audio"
	"github.com/tomz197/faceslice/internal/config"
	"github.com/tomz197/faceslice/internal/object"
	"github.com/tomz197/faceslice/internal/recipe"
	"github.com/tomz197/faceslice/internal/telemetry"
	"github.com/tomz197/faceslice/internal/tracking"
)

// GameState represents the current game phase for a session.
type GameState int

const (
	GameStateStart         GameState = iota // Title screen, waiting for a click
	GameStateIntro                          // Title crawl, inert until it ends
	GameStatePlaying                        // Fruit is flying
	GameStateGameOver                       // Bad cut, click retries the level
	GameStateLevelComplete                  // Recipe done, click moves on
)

func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStateIntro:
		return "intro"
	case GameStatePlaying:
		return "playing"
	case GameStateGameOver:
		return "game-over"
	case GameStateLevelComplete:
		return "level-complete"
	default:
		return "unknown"
	}
}

// roundStats accumulates telemetry for the round in progress.
type roundStats struct {
	startFrame int
	started    time.Time
	spawned    int
	windows    int
}

// State is one session's game. Only the loop goroutine reads or writes it.
type State struct {
	GameState GameState
	Variant   *config.Variant
	Screen    object.Screen // Logical play field
	Level     int
	Score     int
	Progress  *recipe.Progress
	Objects   []object.Object
	toSpawn   []object.Object // Objects to add after current update cycle
	Cursor    *object.Cursor
	Slice     object.SliceWindow
	Intro     *object.Intro
	Frame     int
	Running   bool

	// Cause is the kind whose cut ended the last round.
	Cause object.Kind

	Mailbox *tracking.Mailbox // Nil when no tracker can attach
	Adapter tracking.Adapter
	Sink    audio.Sink
	Output  *telemetry.OutputManager
	Logger  *log.Logger
	Session string

	rng   *rand.Rand
	round roundStats
}

// StateOptions wires a state to its collaborators. Zero values are safe.
type StateOptions struct {
	Mailbox *tracking.Mailbox
	Sink    audio.Sink
	Output  *telemetry.OutputManager
	Logger  *log.Logger
	Session string
	Rand    *rand.Rand
}

// NewState creates a session on the start screen.
func NewState(v *config.Variant, opts StateOptions) *State {
	sink := opts.Sink
	if sink == nil {
		sink = audio.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	screen := v.Screen()
	return &State{
		GameState: GameStateStart,
		Variant:   v,
		Screen:    screen,
		Progress:  recipe.NewProgress(v.Recipe(0)),
		Cursor:    object.NewCursor(screen.Center(), v.Cursor.Smoothing),
		Running:   true,
		Mailbox:   opts.Mailbox,
		Adapter:   tracking.NewAdapter(screen.Width, screen.Height, v.Slice.BlinkThreshold),
		Sink:      sink,
		Output:    opts.Output,
		Logger:    logger,
		Session:   opts.Session,
		rng:       rng,
	}
}

// Spawn queues an object to be added after the current update cycle.
// Implements object.Spawner interface.
func (s *State) Spawn(obj object.Object) {
	if _, ok := obj.(*object.Fruit); ok {
		s.round.spawned++
	}
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued objects to the game and clears the queue.
func (s *State) FlushSpawned() {
	s.Objects = append(s.Objects, s.toSpawn...)
	s.toSpawn = s.toSpawn[:0]
}

// Fruits returns the fruit currently in play.
func (s *State) Fruits() []*object.Fruit {
	return object.FilterFruits(s.Objects)
}

// UpdateContext creates an UpdateContext for one frame.
func (s *State) UpdateContext(delta time.Duration) object.UpdateContext {
	return object.UpdateContext{
		Delta:   delta,
		Screen:  s.Screen,
		Physics: s.Variant.WorldPhysics(),
		Spawner: s,
	}
}

// Recipe returns the active level's recipe.
func (s *State) Recipe() recipe.Recipe {
	return s.Progress.Recipe()
}

// Tracking reports whether a tracker page has sent a face recently.
func (s *State) Tracking(stale time.Duration) bool {
	if s.Mailbox == nil || !s.Mailbox.Connected() {
		return false
	}
	return time.Since(s.Mailbox.LastSeen()) < stale
}

// clearObjects drops every object, returning pooled ones.
func (s *State) clearObjects() {
	for _, obj := range s.Objects {
		object.ReleaseObject(obj)
	}
	for _, obj := range s.toSpawn {
		object.ReleaseObject(obj)
	}
	s.Objects = s.Objects[:0]
	s.toSpawn = s.toSpawn[:0]
}
