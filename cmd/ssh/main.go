package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/faceslice/internal/audio"
	"github.com/tomz197/faceslice/internal/config"
	"github.com/tomz197/faceslice/internal/draw"
	applog "github.com/tomz197/faceslice/internal/logging"
	"github.com/tomz197/faceslice/internal/loop"
	loopconfig "github.com/tomz197/faceslice/internal/loop/config"
	"github.com/tomz197/faceslice/internal/telemetry"
	"github.com/tomz197/faceslice/internal/tracking"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultWebPort     = "8080"
)

// app holds what every SSH session shares.
type app struct {
	variant    *config.Variant
	hub        *tracking.Hub
	output     *telemetry.OutputManager
	logger     *log.Logger
	trackerURL string

	ctx      context.Context // Cancelled when the server shuts down
	sessions sync.WaitGroup
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger, err := applog.New(os.Stderr, applog.Options{
		Level: config.GetEnv("LOG_LEVEL", "info"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	webPort := config.GetEnv("WEB_PORT", defaultWebPort)
	publicHost := config.GetEnv("PUBLIC_HOST", "localhost")
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "error", workErr)
	}
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "workingDir", workingDir)

	variant, err := config.LoadVariantFromEnv()
	if err != nil {
		logger.Fatal("loading variant", "error", err)
	}
	output, err := telemetry.NewOutputManager(config.GetEnv("OUTPUT_DIR", ""))
	if err != nil {
		logger.Fatal("opening output", "error", err)
	}
	defer output.Close()

	baseCtx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	a := &app{
		variant:    variant,
		hub:        tracking.NewHub(),
		output:     output,
		logger:     logger,
		trackerURL: config.GetEnv("TRACKER_URL", "http://"+net.JoinHostPort(publicHost, webPort)),
		ctx:        baseCtx,
	}

	// Tracker page shared by all sessions
	httpServer := &http.Server{
		Addr: net.JoinHostPort(host, webPort),
		Handler: tracking.NewServer(a.hub, tracking.ServerOptions{
			SSHHost: publicHost,
			SSHPort: port,
			Logger:  logger.WithPrefix("tracker"),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting tracker server", "addr", httpServer.Addr, "url", a.trackerURL)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("tracker server error", "error", err)
		}
	}()

	logger.Info("Starting SSH server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "error", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and wait for their sessions to end
	cancelSessions()
	if !a.waitSessions(loopconfig.ShutdownDisplaySeconds*time.Second + 5*time.Second) {
		logger.Warn("sessions still open after grace period")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("tracker shutdown error", "error", err)
	}
	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		logger.Fatal("shutdown error", "error", err)
	}
}

// waitSessions waits for every session to finish, up to timeout.
func (a *app) waitSessions(timeout time.Duration) bool {
	finished := make(chan struct{})
	go func() {
		a.sessions.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return true
	case <-time.After(timeout):
		return false
	}
}

// gameMiddleware handles SSH sessions and runs one game per session.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		if a.ctx.Err() != nil {
			fmt.Fprintln(sess, "Server is shutting down. Please reconnect in a moment.")
			return
		}

		a.sessions.Add(1)
		defer a.sessions.Done()

		code, mailbox, err := a.hub.Register()
		if err != nil {
			fmt.Fprintln(sess, "Server is full. Please try again later.")
			a.logger.Warn("session rejected", "user", sess.User(), "error", err)
			return
		}
		defer a.hub.Unregister(code)

		a.logger.Info("New game session", "user", sess.User(), "code", code,
			"terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		game := loop.NewGame(a.variant, reader, sess, loop.Options{
			TermSizeFunc:  sizeTracker.getSize,
			Sink:          audio.NewBell(sess),
			Output:        a.output,
			Logger:        a.logger.WithPrefix(code),
			Mailbox:       mailbox,
			Code:          code,
			TrackerURL:    a.trackerURL,
			Session:       code,
			Inactivity:    true,
			ShutdownGrace: loopconfig.ShutdownDisplaySeconds * time.Second,
		})
		if err := game.Run(a.ctx); err != nil {
			a.logger.Error("game error", "user", sess.User(), "error", err)
		}

		a.logger.Info("Session ended", "user", sess.User(), "code", code)
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
