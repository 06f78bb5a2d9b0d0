// Package audio plays the game's sound cues. Playback is fire-and-forget:
// a sink never reports failure to the game loop.
package audio

import (
	"io"

	"github.com/tomz197/faceslice/internal/draw"
)

// Cue is a sound the game asks for on a state transition or a cut.
type Cue int

const (
	CueMusicStart Cue = iota // Restart background music from the beginning
	CueMusicStop
	CueSlice
	CueBomb
	CueWin
)

func (c Cue) String() string {
	switch c {
	case CueMusicStart:
		return "music-start"
	case CueMusicStop:
		return "music-stop"
	case CueSlice:
		return "slice"
	case CueBomb:
		return "bomb"
	case CueWin:
		return "win"
	default:
		return "unknown"
	}
}

// Sink plays cues.
type Sink interface {
	Play(cue Cue)
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(Cue) {}

// Bell rings the terminal bell on round-ending cues. It is the only audio
// an SSH client can hear.
type Bell struct {
	w io.Writer
}

// NewBell creates a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Play(cue Cue) {
	switch cue {
	case CueBomb, CueWin:
		draw.Bell(b.w)
	}
}

// Recorder remembers every cue in order. Tests use it to check transitions.
type Recorder struct {
	Cues []Cue
}

func (r *Recorder) Play(cue Cue) {
	r.Cues = append(r.Cues, cue)
}
