package audio

import (
	"bytes"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

const testRate = beep.SampleRate(8000)

// drain streams s to completion and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer, limit int) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 256)
	total := 0
	peak := 0.0
	for total < limit {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			for _, v := range smp {
				if v > peak {
					peak = v
				}
				if -v > peak {
					peak = -v
				}
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	return total, peak
}

func TestEffectsEndAndStayInRange(t *testing.T) {
	tests := []struct {
		cue  Cue
		want time.Duration
	}{
		{CueSlice, 120 * time.Millisecond},
		{CueBomb, 600 * time.Millisecond},
		{CueWin, 440 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.cue.String(), func(t *testing.T) {
			st := Effect(tt.cue, testRate)
			if st == nil {
				t.Fatal("no streamer")
			}
			n, peak := drain(t, st, testRate.N(10*time.Second))
			if n != testRate.N(tt.want) {
				t.Fatalf("samples = %d, want %d", n, testRate.N(tt.want))
			}
			if peak == 0 || peak > 1 {
				t.Fatalf("peak = %v, want in (0, 1]", peak)
			}
		})
	}
}

func TestMusicCuesHaveNoEffect(t *testing.T) {
	if Effect(CueMusicStart, testRate) != nil || Effect(CueMusicStop, testRate) != nil {
		t.Fatal("music cues are not one-shot effects")
	}
}

func TestMusicIsEndless(t *testing.T) {
	limit := testRate.N(30 * time.Second)
	n, peak := drain(t, NewMusic(testRate), limit)
	if n < limit {
		t.Fatalf("music stopped after %d samples", n)
	}
	if peak > 1 {
		t.Fatalf("peak = %v, want <= 1", peak)
	}
}

func TestSynthWithoutInitIsSilent(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("cue without speaker panicked: %v", r)
		}
	}()
	s := NewSynth()
	for c := CueMusicStart; c <= CueWin; c++ {
		s.Play(c)
	}
	s.Close()
}

func TestBellRingsOnRoundEnd(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	for c := CueMusicStart; c <= CueWin; c++ {
		b.Play(c)
	}
	if got := buf.String(); got != "\a\a" {
		t.Fatalf("bell wrote %q, want two bells", got)
	}
}
