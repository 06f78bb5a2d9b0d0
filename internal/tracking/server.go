package tracking

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

//go:embed page.html
var pageTemplate string

const (
	maxFrameSize = 64 << 10
	pongWait     = 60 * time.Second
	pingPeriod   = 25 * time.Second
	writeWait    = 10 * time.Second
)

// ServerOptions configures the tracker page.
type ServerOptions struct {
	SSHHost string // Shown on the page as the host to ssh into
	SSHPort string
	Logger  *log.Logger
}

// Server serves the tracker page at / and accepts landmark streams at
// /ws?code=XXXXXX, delivering each frame to the paired session's mailbox.
type Server struct {
	hub      *Hub
	logger   *log.Logger
	page     string
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// NewServer creates a tracker server backed by hub.
func NewServer(hub *Hub, opts ServerOptions) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	tracked, _ := json.Marshal(Tracked)
	page := strings.NewReplacer(
		"{{.SSHHost}}", opts.SSHHost,
		"{{.SSHPort}}", opts.SSHPort,
		"{{.CodeLength}}", strconv.Itoa(CodeLength),
		"{{.Tracked}}", string(tracked),
	).Replace(pageTemplate)

	s := &Server{
		hub:    hub,
		logger: logger,
		page:   page,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// The page may be served from a different host than the game.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc("/", s.handlePage)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok %d\n", s.hub.Len())
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, s.page)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	mb, ok := s.hub.Lookup(code)
	if !ok {
		http.Error(w, "unknown pairing code", http.StatusNotFound)
		return
	}
	// One tracker per session; a second page cannot take over the cursor.
	if !mb.attach() {
		s.logger.Warn("tracker rejected, code in use", "code", code, "remote", r.RemoteAddr)
		http.Error(w, "pairing code already in use", http.StatusConflict)
		return
	}
	defer mb.detach()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "code", code, "error", err)
		return
	}
	defer conn.Close()
	s.logger.Info("tracker connected", "code", code, "remote", r.RemoteAddr)

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("tracker read failed", "code", code, "error", err)
			}
			break
		}
		// Any traffic proves the peer is alive.
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			s.logger.Debug("dropping malformed frame", "code", code, "error", err)
			continue
		}
		if len(frame.Landmarks) == 0 {
			continue
		}
		mb.Publish(&frame)
	}
	s.logger.Info("tracker disconnected", "code", code)
}
