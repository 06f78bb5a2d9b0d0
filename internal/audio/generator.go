package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Sweep is a sine whose pitch glides from one frequency to another while
// its volume decays. It ends after duration.
type Sweep struct {
	sr       beep.SampleRate
	from, to float64
	gain     float64
	total    int
	pos      int
	phase    float64
}

// NewSweep creates a pitch sweep generator.
func NewSweep(sr beep.SampleRate, from, to float64, duration time.Duration, gain float64) *Sweep {
	return &Sweep{sr: sr, from: from, to: to, gain: gain, total: sr.N(duration)}
}

func (g *Sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		p := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*p
		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)

		sample := g.gain * (1 - p) * math.Sin(2*math.Pi*g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Sweep) Err() error {
	return nil
}

// NoiseBurst is decaying noise over a low rumble, used for the bomb.
type NoiseBurst struct {
	sr    beep.SampleRate
	gain  float64
	total int
	pos   int
	seed  int64
}

// NewNoiseBurst creates a noise burst generator.
func NewNoiseBurst(sr beep.SampleRate, duration time.Duration, gain float64) *NoiseBurst {
	return &NoiseBurst{sr: sr, gain: gain, total: sr.N(duration), seed: 1}
}

func (g *NoiseBurst) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.sr)

		// Envelope - quick attack, slower decay
		envelope := math.Exp(-t * 6)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1
		rumble := 0.5 * math.Sin(2*math.Pi*60*t)

		sample := g.gain * envelope * (0.6*noise + rumble)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *NoiseBurst) Err() error {
	return nil
}

// Arpeggio plays notes one after another, each with a short decay.
type Arpeggio struct {
	sr      beep.SampleRate
	notes   []float64
	gain    float64
	perNote int
	pos     int
}

// NewArpeggio creates an arpeggio of notes (Hz), each lasting step.
func NewArpeggio(sr beep.SampleRate, notes []float64, step time.Duration, gain float64) *Arpeggio {
	return &Arpeggio{sr: sr, notes: notes, gain: gain, perNote: sr.N(step)}
}

func (g *Arpeggio) Stream(samples [][2]float64) (n int, ok bool) {
	total := g.perNote * len(g.notes)
	for i := range samples {
		if g.pos >= total {
			return i, i > 0
		}
		note := g.notes[g.pos/g.perNote]
		inNote := g.pos % g.perNote
		t := float64(inNote) / float64(g.sr)
		envelope := math.Exp(-t * 10)

		sample := g.gain * envelope * math.Sin(2*math.Pi*note*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Arpeggio) Err() error {
	return nil
}

// musicBar is the looping bass line, one note per beat.
var musicBar = []float64{110, 110, 164.81, 146.83, 110, 130.81, 146.83, 98}

// Music is an endless plucked bass line with a kick on every beat.
type Music struct {
	sr      beep.SampleRate
	perBeat int
	pos     int
}

// NewMusic creates the background music generator at 120 BPM.
func NewMusic(sr beep.SampleRate) *Music {
	return &Music{sr: sr, perBeat: sr.N(500 * time.Millisecond)}
}

func (g *Music) Stream(samples [][2]float64) (n int, ok bool) {
	kickLen := g.sr.N(80 * time.Millisecond)
	for i := range samples {
		beat := g.pos / g.perBeat
		beatPos := g.pos % g.perBeat
		t := float64(beatPos) / float64(g.sr)

		kick := 0.0
		if beatPos < kickLen {
			env := 1 - float64(beatPos)/float64(kickLen)
			kick = 0.3 * env * math.Sin(2*math.Pi*60*(1+2*env)*t)
		}
		note := musicBar[beat%len(musicBar)]
		bass := 0.12 * math.Exp(-t*4) * math.Sin(2*math.Pi*note*t)

		sample := kick + bass
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Music) Err() error {
	return nil
}
