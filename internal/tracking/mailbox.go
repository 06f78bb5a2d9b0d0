package tracking

import (
	"sync/atomic"
	"time"
)

// Mailbox holds the latest tracker frame for one game session. The
// WebSocket reader publishes, the game loop takes once per frame; each
// frame is seen at most once and older unread frames are overwritten.
type Mailbox struct {
	latest   atomic.Pointer[Frame]
	lastSeen atomic.Int64 // Unix nanos of the last publish
	peers    atomic.Int32
}

// Publish replaces the pending frame.
func (m *Mailbox) Publish(f *Frame) {
	m.latest.Store(f)
	m.lastSeen.Store(time.Now().UnixNano())
}

// Take returns the pending frame and clears the slot, or nil if nothing new
// arrived since the last call.
func (m *Mailbox) Take() *Frame {
	return m.latest.Swap(nil)
}

// Drop discards any pending frame.
func (m *Mailbox) Drop() {
	m.latest.Store(nil)
}

// Connected reports whether a tracker page is attached.
func (m *Mailbox) Connected() bool {
	return m.peers.Load() > 0
}

// LastSeen returns when the last frame arrived, zero if never.
func (m *Mailbox) LastSeen() time.Time {
	n := m.lastSeen.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// attach claims the mailbox for one tracker page. It fails while another
// page is attached.
func (m *Mailbox) attach() bool { return m.peers.CompareAndSwap(0, 1) }

func (m *Mailbox) detach() { m.peers.Store(0) }
