package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// Synth plays synthesized cues on the local speaker.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
}

// NewSynth creates a synth. Call Init before cues are audible.
func NewSynth() *Synth {
	return &Synth{
		mixer: &beep.Mixer{},
	}
}

// Init opens the speaker. Without a sound device it returns an error and the
// synth stays silent.
func (s *Synth) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close stops all sounds.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	s.music = nil
	speaker.Unlock()
	s.initialized = false
}

// Play starts the sound for cue.
func (s *Synth) Play(cue Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}

	speaker.Lock()
	defer speaker.Unlock()

	switch cue {
	case CueMusicStart:
		if s.music != nil {
			s.music.Streamer = nil
		}
		// A fresh generator starts the tune from the top.
		s.music = &beep.Ctrl{Streamer: NewMusic(sampleRate)}
		s.mixer.Add(s.music)
	case CueMusicStop:
		if s.music != nil {
			// The mixer drops a Ctrl with no streamer.
			s.music.Streamer = nil
			s.music = nil
		}
	default:
		if st := Effect(cue, sampleRate); st != nil {
			s.mixer.Add(st)
		}
	}
}

// Effect returns the one-shot streamer for cue, or nil for music cues.
func Effect(cue Cue, sr beep.SampleRate) beep.Streamer {
	switch cue {
	case CueSlice:
		return beep.Take(sr.N(120*time.Millisecond), NewSweep(sr, 1400, 500, 120*time.Millisecond, 0.25))
	case CueBomb:
		return beep.Take(sr.N(600*time.Millisecond), NewNoiseBurst(sr, 600*time.Millisecond, 0.4))
	case CueWin:
		return NewArpeggio(sr, []float64{523.25, 659.25, 783.99, 1046.5}, 110*time.Millisecond, 0.25)
	default:
		return nil
	}
}
