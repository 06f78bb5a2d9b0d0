// Package loop provides the main game loop and state management.
package loop

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/faceslice/internal/audio"
	gameconfig "github.com/tomz197/faceslice/internal/config"
	"github.com/tomz197/faceslice/internal/draw"
	"github.com/tomz197/faceslice/internal/input"
	"github.com/tomz197/faceslice/internal/loop/config"
	"github.com/tomz197/faceslice/internal/telemetry"
	"github.com/tomz197/faceslice/internal/tracking"
)

// Options configures a game session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Sink         audio.Sink
	Output       *telemetry.OutputManager
	Logger       *log.Logger
	Rand         *rand.Rand

	// Tracker pairing. Mailbox may be nil, leaving keyboard control only.
	Mailbox    *tracking.Mailbox
	Code       string
	TrackerURL string

	Session string

	// Disconnect idle sessions (shared servers).
	Inactivity bool

	// How long to show the shutdown notice after ctx is cancelled. Zero
	// exits at once.
	ShutdownGrace time.Duration
}

// Game handles rendering and input for a single session.
type Game struct {
	state        *State
	opts         Options
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates one frame of output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	lastInput    time.Time
	isInactive   bool
	shutdownLeft time.Duration // Counts down once shutdown starts
	shuttingDown bool
}

// NewGame creates a session reading keys from r and drawing to w.
func NewGame(v *gameconfig.Variant, r io.ByteReader, w io.Writer, opts Options) *Game {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	state := NewState(v, StateOptions{
		Mailbox: opts.Mailbox,
		Sink:    opts.Sink,
		Output:  opts.Output,
		Logger:  opts.Logger,
		Session: opts.Session,
		Rand:    opts.Rand,
	})

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := fitTermSize(termWidth, termHeight, state.Screen.Width, state.Screen.Height)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, float64(state.Screen.Width), float64(state.Screen.Height))
	canvas.SetOffset(offsetCol, offsetRow)

	return &Game{
		state:        state,
		opts:         opts,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		lastInput:    time.Now(),
	}
}

// State exposes the session state.
func (g *Game) State() *State {
	return g.state
}

// Run starts the loop with the standard Input → Update → Draw cycle. It
// blocks until the player quits, the input closes, the session idles out,
// or ctx is cancelled and the shutdown notice has been shown.
func (g *Game) Run(ctx context.Context) error {
	draw.HideCursor(g.writer)
	draw.EnableMouse(g.writer)
	defer func() {
		draw.DisableMouse(g.writer)
		draw.ShowCursor(g.writer)
		draw.ClearScreen(g.writer)
	}()
	draw.ClearScreen(g.writer)

	lastTime := time.Now()
	for g.state.Running {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// ===== INPUT PHASE =====
		in := g.processInput()

		if !g.shuttingDown && ctx.Err() != nil {
			if g.opts.ShutdownGrace <= 0 {
				break
			}
			g.shuttingDown = true
			g.shutdownLeft = g.opts.ShutdownGrace
		}

		// ===== UPDATE PHASE =====
		g.updateScreen()
		if g.shuttingDown {
			g.shutdownLeft -= delta
			if g.shutdownLeft <= 0 {
				break
			}
		} else if err := g.state.Step(delta, in); err != nil {
			return err
		}

		// ===== DRAW PHASE =====
		if err := g.drawFrame(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}
	return nil
}

// processInput reads input and handles quitting and inactivity.
func (g *Game) processInput() input.Input {
	in := input.ReadInput(g.inputStream)

	if in.Quit || in.Closed {
		g.state.Running = false
		return in
	}

	active := in.Click || in.Blink || in.Nudged() || in.Mouse != nil ||
		g.state.Tracking(config.TrackerStale)
	switch {
	case active:
		g.lastInput = time.Now()
		g.isInactive = false
	case !g.opts.Inactivity:
	case time.Since(g.lastInput).Seconds() > config.InactivityDisconnectUser:
		g.state.Logger.Info("disconnecting idle session", "session", g.opts.Session)
		g.state.Running = false
	case time.Since(g.lastInput).Seconds() > config.InactivityWarnUser:
		g.isInactive = true
	}
	return in
}

// updateScreen handles terminal resize, fitting the field into the terminal.
func (g *Game) updateScreen() {
	termWidth, termHeight, err := g.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitTermSize(termWidth, termHeight, g.state.Screen.Width, g.state.Screen.Height)
	g.canvas.Resize(renderWidth, renderHeight)
	g.canvas.SetOffset(offsetCol, offsetRow)
	g.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// fitTermSize picks the largest render area that shows the whole field with
// square pixels (one cell is two pixels tall) and centers it.
func fitTermSize(termWidth, termHeight, fieldWidth, fieldHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	maxW := min(max(termWidth, config.MinTermWidth), config.MaxTermWidth)
	maxH := min(max(termHeight, config.MinTermHeight), config.MaxTermHeight)

	renderWidth = maxW
	renderHeight = renderWidth * fieldHeight / (2 * fieldWidth)
	if renderHeight > maxH {
		renderHeight = maxH
		renderWidth = renderHeight * 2 * fieldWidth / fieldHeight
	}
	renderWidth = max(renderWidth, 1)
	renderHeight = max(renderHeight, 1)

	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}
