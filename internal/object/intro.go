package object

import (
	"time"

	"github.com/tomz197/faceslice/internal/draw"
)

// Intro is the one-shot title crawl played between the start screen and the
// first round. It reports completion exactly once.
type Intro struct {
	Duration time.Duration
	Lines    []string
	elapsed  time.Duration
	ended    bool
}

// NewIntro creates an intro crawl of the given length.
func NewIntro(duration time.Duration, lines []string) *Intro {
	return &Intro{Duration: duration, Lines: lines}
}

// Update advances playback. It returns true on the frame playback ends and
// false on every frame before and after.
func (in *Intro) Update(ctx UpdateContext) (bool, error) {
	if in.ended {
		return false, nil
	}
	in.elapsed += ctx.Delta
	if in.elapsed >= in.Duration {
		in.ended = true
		return true, nil
	}
	return false, nil
}

// Ended reports whether playback has finished.
func (in *Intro) Ended() bool {
	return in.ended
}

// Progress returns playback position in [0, 1].
func (in *Intro) Progress() float64 {
	if in.Duration <= 0 {
		return 1
	}
	p := float64(in.elapsed) / float64(in.Duration)
	if p > 1 {
		p = 1
	}
	return p
}

// Draw scrolls the crawl lines upward across the render area.
func (in *Intro) Draw(ctx DrawContext) error {
	termW := ctx.Canvas.TerminalWidth()
	termH := ctx.Canvas.TerminalHeight()
	centerX := termW / 2

	// Lines enter at the bottom and leave through the top.
	travel := termH + len(in.Lines)*2
	top := termH - int(in.Progress()*float64(travel))
	for i, line := range in.Lines {
		row := top + i*2
		if row < 1 || row > termH {
			continue
		}
		ctx.Writer.WriteCentered(centerX, row, line, draw.Colorize(line, draw.ColorAmber))
	}

	bar := int(in.Progress() * float64(termW))
	ctx.Canvas.DrawLine(draw.Point{X: 0, Y: ctx.Canvas.LogicalHeight() - 1},
		draw.Point{X: float64(bar) / float64(termW) * ctx.Canvas.LogicalWidth(), Y: ctx.Canvas.LogicalHeight() - 1},
		draw.ColorSteel)
	return nil
}
