package loop

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/faceslice/internal/draw"
	"github.com/tomz197/faceslice/internal/loop/config"
	"github.com/tomz197/faceslice/internal/object"
)

// drawFrame clears the screen and draws the current frame.
func (g *Game) drawFrame() error {
	cw := g.chunkWriter
	cw.ClearScreen()
	g.canvas.Clear()

	ctx := object.DrawContext{
		Canvas: g.canvas,
		Writer: cw,
	}

	s := g.state
	if s.GameState == GameStateIntro && !g.shuttingDown {
		if err := s.Intro.Draw(ctx); err != nil {
			return err
		}
	} else {
		for _, obj := range s.Objects {
			if err := obj.Draw(ctx); err != nil {
				return err
			}
		}
		if s.GameState == GameStatePlaying && s.Slice.Active {
			s.Cursor.DrawBlade(ctx, s.Variant.Slice.Reach)
		}
		if err := s.Cursor.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	g.canvas.Render(cw)

	g.drawUI()
	return cw.Flush()
}

// drawUI draws the text overlay for the current mode.
func (g *Game) drawUI() {
	termWidth := g.canvas.TerminalWidth()
	termHeight := g.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if g.shuttingDown {
		g.drawShutdownScreen(centerX, centerY)
		return
	}
	if g.isInactive {
		g.drawInactivityScreen(centerX, centerY)
		return
	}

	switch g.state.GameState {
	case GameStateStart:
		g.drawStartScreen(centerX, centerY)
	case GameStatePlaying:
		g.drawPlayingHUD(termWidth, termHeight)
	case GameStateGameOver:
		g.drawPlayingHUD(termWidth, termHeight)
		g.drawGameOverScreen(centerX, centerY)
	case GameStateLevelComplete:
		g.drawPlayingHUD(termWidth, termHeight)
		g.drawLevelCompleteScreen(centerX, centerY)
	}
}

// blinkOn toggles prompts on and off.
func blinkOn() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

func (g *Game) writeArt(centerX, startY int, art []string, col draw.Color) int {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		g.chunkWriter.WriteAt(centerX-width/2, startY+i, draw.Colorize(line, col))
	}
	return startY + len(art)
}

// drawStartScreen draws the title screen with pairing instructions.
func (g *Game) drawStartScreen(centerX, centerY int) {
	// figlet "small" font
	titleArt := []string{
		` ___ _   ___ ___   ___ _    ___ ___ ___ `,
		`| __/_\ / __| __| / __| |  |_ _/ __| __|`,
		`| _/ _ \ (__| _|  \__ \ |__ | | (__| _| `,
		`|_/_/ \_\___|___| |___/____|___\___|___|`,
	}
	cw := g.chunkWriter
	y := g.writeArt(centerX, centerY-9, titleArt, draw.ColorAmber)

	subtitle := "~ " + g.state.Variant.Title + " ~"
	cw.WriteCentered(centerX, y+1, subtitle, subtitle)

	y += 3
	if g.opts.Code != "" {
		pair := fmt.Sprintf("Pairing code: %s", g.opts.Code)
		cw.WriteCentered(centerX, y, pair, "Pairing code: "+draw.Colorize(g.opts.Code, draw.ColorCyan))
		y++
		if g.opts.TrackerURL != "" {
			url := fmt.Sprintf("Open %s/?code=%s", g.opts.TrackerURL, g.opts.Code)
			cw.WriteCentered(centerX, y, url, url)
			y++
		}
		status := "Camera: waiting for tracker page"
		if g.state.Tracking(config.TrackerStale) {
			status = "Camera: face found"
		}
		cw.WriteCentered(centerX, y, status, status)
		y += 2
	}

	controls := []string{
		"Nose / arrows . . . Aim",
		"Blink / SPACE . . Slice",
		"ENTER / click . . Start",
		"Q . . . . . . . .  Quit",
	}
	for i, line := range controls {
		cw.WriteCentered(centerX, y+i, line, line)
	}

	if blinkOn() {
		prompt := ">>  Click or press ENTER to start  <<"
		cw.WriteCentered(centerX, y+len(controls)+1, prompt, prompt)
	}
}

// drawPlayingHUD draws the level, score and recipe checklist.
func (g *Game) drawPlayingHUD(termWidth, termHeight int) {
	cw := g.chunkWriter
	s := g.state

	top := fmt.Sprintf("Score: %d", s.Score)
	if s.Variant.Progression {
		top = fmt.Sprintf("Level %d/%d  %s", s.Level+1, s.Variant.LevelCount(), top)
	}
	cw.WriteAt(2, 1, top)

	r := s.Recipe()
	for i, k := range r.Kinds() {
		have, need := s.Progress.Count(k), r.Need(k)
		line := fmt.Sprintf("%-6s %d/%d", k, have, need)
		col := k.Sprite().Body
		if have == need {
			line += " ok"
			col = draw.ColorLime
		}
		cw.WriteAt(termWidth-len(line)-1, 1+i, draw.Colorize(line, col))
	}

	if g.opts.Mailbox != nil && !s.Tracking(config.TrackerStale) {
		hint := "no face: arrows aim, SPACE slices"
		cw.WriteAt(2, termHeight, draw.Colorize(hint, draw.ColorSteel))
	}
}

// drawGameOverScreen draws the failure screen.
func (g *Game) drawGameOverScreen(centerX, centerY int) {
	titleArt := []string{
		`  ___   _   __  __ ___    _____   _____ ___ `,
		` / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \`,
		`| (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   /`,
		` \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\`,
	}
	cw := g.chunkWriter
	y := g.writeArt(centerX, centerY-5, titleArt, draw.ColorRed)

	reason := failReason(g.state)
	cw.WriteCentered(centerX, y+1, reason, reason)

	score := fmt.Sprintf("Score: %d", g.state.Score)
	cw.WriteCentered(centerX, y+3, score, score)

	if blinkOn() {
		prompt := ">>  Click to retry  <<"
		cw.WriteCentered(centerX, y+5, prompt, prompt)
	}
}

func failReason(s *State) string {
	k := s.Cause
	switch {
	case k.IsHazard():
		return "You sliced a bomb!"
	case s.Recipe().Need(k) == 0:
		return fmt.Sprintf("The recipe has no %s.", k)
	default:
		return fmt.Sprintf("Too much %s!", k)
	}
}

// drawLevelCompleteScreen draws the win screen. Without progression it is
// the final win.
func (g *Game) drawLevelCompleteScreen(centerX, centerY int) {
	s := g.state
	var titleArt []string
	var prompt string
	if s.Variant.Progression {
		titleArt = []string{
			` _    _____   _____ _      ___  ___  _  _ ___ `,
			`| |  | __\ \ / / __| |    |   \/ _ \| \| | __|`,
			`| |__| _| \ V /| _|| |__  | |) | (_) | .` + "`" + ` | _| `,
			`|____|___| \_/ |___|____| |___/\___/|_|\_|___|`,
		}
		next := (s.Level+1)%s.Variant.LevelCount() + 1
		prompt = fmt.Sprintf(">>  Click for level %d  <<", next)
	} else {
		titleArt = []string{
			`__   _____  _   _  __      _____ _  _ `,
			`\ \ / / _ \| | | | \ \    / /_ _| \| |`,
			` \ V / (_) | |_| |  \ \/\/ / | || .` + "`" + ` |`,
			`  |_| \___/ \___/    \_/\_/ |___|_|\_|`,
		}
		prompt = ">>  Click to play again  <<"
	}

	cw := g.chunkWriter
	y := g.writeArt(centerX, centerY-5, titleArt, draw.ColorLime)

	dish := "Served: " + strings.Trim(s.Recipe().String(), "{}")
	cw.WriteCentered(centerX, y+1, dish, dish)

	score := fmt.Sprintf("Score: %d", s.Score)
	cw.WriteCentered(centerX, y+3, score, score)

	if blinkOn() {
		cw.WriteCentered(centerX, y+5, prompt, prompt)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (g *Game) drawInactivityScreen(centerX, centerY int) {
	cw := g.chunkWriter
	cw.WriteBold(centerX-9, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(g.lastInput).Seconds()),
	)
	cw.WriteCentered(centerX, centerY, msg, msg)

	hint := "Press any key to continue"
	cw.WriteCentered(centerX, centerY+2, hint, hint)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (g *Game) drawShutdownScreen(centerX, centerY int) {
	cw := g.chunkWriter
	cw.WriteBold(centerX-10, centerY-3, "SERVER SHUTTING DOWN")

	msg := "Please reconnect in a moment."
	cw.WriteCentered(centerX, centerY-1, msg, msg)

	remaining := int(g.shutdownLeft.Seconds()) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteCentered(centerX, centerY+1, countdown, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteCentered(centerX, centerY+3, hint, hint)
}
