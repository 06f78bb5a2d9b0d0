package tracking

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
)

// Pairing code alphabet without look-alike characters.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of characters in a pairing code. Six characters
// from the alphabet give about 10^9 codes.
const CodeLength = 6

// ErrHubFull is returned when no free pairing code could be found.
var ErrHubFull = errors.New("no free pairing code")

// Hub pairs tracker pages with game sessions by short code.
type Hub struct {
	mu        sync.RWMutex
	mailboxes map[string]*Mailbox
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{mailboxes: make(map[string]*Mailbox)}
}

// Register allocates a fresh code and mailbox for a game session.
func (h *Hub) Register() (string, *Mailbox, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for attempt := 0; attempt < 64; attempt++ {
		code := newCode()
		if _, taken := h.mailboxes[code]; taken {
			continue
		}
		mb := &Mailbox{}
		h.mailboxes[code] = mb
		return code, mb, nil
	}
	return "", nil, ErrHubFull
}

// Unregister frees code. Tracker connections still open keep their mailbox
// but nothing reads it.
func (h *Hub) Unregister(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.mailboxes, code)
}

// Lookup finds the mailbox for code, ignoring case and surrounding space.
func (h *Hub) Lookup(code string) (*Mailbox, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	h.mu.RLock()
	defer h.mu.RUnlock()
	mb, ok := h.mailboxes[code]
	return mb, ok
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.mailboxes)
}

func newCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
