// Package input turns raw terminal bytes into per-frame game input.
package input

import (
	"bytes"
	"io"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state. Direction keys are held
// state; Click, Blink and Quit fire once per press.
type Input struct {
	Quit   bool
	Closed bool // The input source ended
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Click  bool // Enter or a left mouse press
	Blink  bool // Space, a manual slice
	Mouse  *MouseEvent
}

// Nudged reports whether any direction key is held.
func (in Input) Nudged() bool {
	return in.Left || in.Right || in.Up || in.Down
}

// MouseEvent is a decoded xterm SGR mouse report. Col and Row are 1-based
// terminal cells.
type MouseEvent struct {
	Button  int
	Col     int
	Row     int
	Release bool
}

// LeftPress reports whether the event is a left button press without motion.
func (m MouseEvent) LeftPress() bool {
	return !m.Release && m.Button&0b11 == 0 && m.Button&(32|64) == 0
}

// keyState tracks the last time each held key was pressed.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // Incomplete escape sequence carried to the next frame
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.ByteReader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, time.Now())
	in.Closed = s.closed
	return in
}

// parse applies buf to the key state and returns the resulting input.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	var in Input

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			s.applyByte(&in, b, now)
			continue
		}

		rest := buf[i:]
		if len(rest) < 3 {
			if bytes.Equal(rest, []byte{'\x1b'}) || bytes.Equal(rest, []byte("\x1b[")) {
				s.pending = append(s.pending[:0], rest...)
				break
			}
			continue
		}
		if rest[1] != '[' {
			continue
		}

		// CSI sequence: ESC [ <code>
		switch rest[2] {
		case 'A': // Up arrow
			s.state.up = now
			i += 2
		case 'B': // Down arrow
			s.state.down = now
			i += 2
		case 'C': // Right arrow
			s.state.right = now
			i += 2
		case 'D': // Left arrow
			s.state.left = now
			i += 2
		case '<':
			ev, n, complete := parseSGRMouse(rest)
			if !complete {
				s.pending = append(s.pending[:0], rest...)
				return s.finish(in, now)
			}
			if ev != nil {
				in.Mouse = ev
				if ev.LeftPress() {
					in.Click = true
				}
			}
			i += n - 1
		}
	}

	return s.finish(in, now)
}

func (s *Stream) finish(in Input, now time.Time) Input {
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	return in
}

// applyByte updates the input and key state for a single key byte.
func (s *Stream) applyByte(in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		s.state.left = now
	case 'd', 'D', 'l', 'L':
		s.state.right = now
	case 'w', 'W', 'k', 'K':
		s.state.up = now
	case 's', 'S', 'j', 'J':
		s.state.down = now
	case ' ':
		in.Blink = true
	case '\n', '\r':
		in.Click = true
	}
}

// parseSGRMouse decodes "ESC [ < b ; x ; y M|m" at the start of seq. It
// returns the event, the bytes consumed, and false if seq ends mid-report.
// A malformed report is consumed and yields a nil event.
func parseSGRMouse(seq []byte) (*MouseEvent, int, bool) {
	end := bytes.IndexAny(seq[3:], "Mm")
	if end < 0 {
		if len(seq) > 32 {
			return nil, len(seq), true
		}
		return nil, 0, false
	}
	end += 3
	fields := bytes.Split(seq[3:end], []byte{';'})
	n := end + 1
	if len(fields) != 3 {
		return nil, n, true
	}
	vals := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(string(f))
		if err != nil {
			return nil, n, true
		}
		vals[i] = v
	}
	return &MouseEvent{
		Button:  vals[0],
		Col:     vals[1],
		Row:     vals[2],
		Release: seq[end] == 'm',
	}, n, true
}
