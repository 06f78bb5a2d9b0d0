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
	"syscall"
	"time"

	"github.com/tomz197/faceslice/internal/audio"
	"github.com/tomz197/faceslice/internal/config"
	"github.com/tomz197/faceslice/internal/logging"
	"github.com/tomz197/faceslice/internal/loop"
	"github.com/tomz197/faceslice/internal/telemetry"
	"github.com/tomz197/faceslice/internal/tracking"
	"golang.org/x/term"
)

const (
	defaultWebHost = "localhost"
	defaultWebPort = "8080"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	variant, err := config.LoadVariantFromEnv()
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.NewFile(config.GetEnv("LOG_FILE", ""), logging.Options{
		Level:  config.GetEnv("LOG_LEVEL", "info"),
		Prefix: "game",
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	output, err := telemetry.NewOutputManager(config.GetEnv("OUTPUT_DIR", ""))
	if err != nil {
		return err
	}
	defer output.Close()

	// Tracker page for this one session
	hub := tracking.NewHub()
	code, mailbox, err := hub.Register()
	if err != nil {
		return err
	}
	defer hub.Unregister(code)

	webHost := config.GetEnv("WEB_HOST", defaultWebHost)
	webPort := config.GetEnv("WEB_PORT", defaultWebPort)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(webHost, webPort),
		Handler:           tracking.NewServer(hub, tracking.ServerOptions{Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("tracker server error", "error", err)
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(ctx)
	}()
	logger.Info("tracker page ready", "addr", httpServer.Addr, "code", code)

	var sink audio.Sink = audio.Nop{}
	if config.GetEnv("AUDIO", "on") != "off" {
		synth := audio.NewSynth()
		if err := synth.Init(); err != nil {
			logger.Warn("audio disabled", "error", err)
		} else {
			defer synth.Close()
			sink = synth
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	game := loop.NewGame(variant, reader, os.Stdout, loop.Options{
		Sink:       sink,
		Output:     output,
		Logger:     logger,
		Mailbox:    mailbox,
		Code:       code,
		TrackerURL: "http://" + httpServer.Addr,
		Session:    "local",
	})
	return game.Run(ctx)
}
