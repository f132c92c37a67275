package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/spectate"
	"github.com/vovakirdan/blockfall/internal/storage"
)

func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return core.DefaultConfig().Player
}

// newLogger builds the CLI logger writing to w at --log-level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// screenLogger returns a logger that stays off the terminal while a
// full-screen program runs: it writes to --log-file or nowhere.
func screenLogger() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		logger, err := newLogger(io.Discard, "blockfall")
		return logger, func() {}, err
	}

	f, err := os.OpenFile(flagLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f, "blockfall")
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
		Player:   flagPlayer,
	}
}

// openStore opens the score database. A failure is logged and play goes
// on without scores.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// startSpectator serves the spectator stream on addr and returns the bound
// address. The stop function shuts the server down and disconnects every
// watcher.
func startSpectator(addr string, logger *log.Logger) (*spectate.Hub, string, func(), error) {
	hub := spectate.NewHub(spectate.DefaultBuffer)
	srv := spectate.NewServer(hub, logger.WithPrefix("spectate"))

	bound, err := srv.Start(addr)
	if err != nil {
		hub.Close()
		return nil, "", nil, err
	}

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("spectator server shutdown", "error", err)
		}
	}
	return hub, bound, stop, nil
}

// gameOptions bundles the collaborators of a local game.
func gameOptions(store *storage.Store, logger *log.Logger, hub *spectate.Hub) tui.Options {
	opts := tui.Options{Store: store, Logger: logger}
	if hub != nil {
		opts.Spectators = hub
	}
	return opts
}
