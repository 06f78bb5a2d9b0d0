package object

// SliceWindow is the short span of frames after a blink during which any
// fruit under the cursor is cut.
type SliceWindow struct {
	Active bool
	Timer  int // Frames left before the window closes
}

// Arm opens a window lasting frames. A blink that arrives while the
// previous window is still active is ignored, and Arm returns false.
func (w *SliceWindow) Arm(frames int) bool {
	if w.Active || w.Timer > 0 || frames <= 0 {
		return false
	}
	w.Active = true
	w.Timer = frames
	return true
}

// Tick advances the window by one frame. The window closes on the first
// tick after the timer reaches zero.
func (w *SliceWindow) Tick() {
	if w.Timer > 0 {
		w.Timer--
		return
	}
	w.Active = false
}

// Reset closes the window immediately.
func (w *SliceWindow) Reset() {
	w.Active = false
	w.Timer = 0
}
