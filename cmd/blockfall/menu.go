package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/spectate"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a variant from a menu",
	Long: `Start Blockfall in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play a variant and Tab for
the scoreboard. After a game ends, Esc brings you back to the menu.

Examples:
  blockfall menu
  blockfall menu --fps 30
  blockfall menu --db ./scores.db --spectate :8090`,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a read-only spectator stream on this address (e.g. :8090)")
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := screenLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	var hub *spectate.Hub
	if flagSpectate != "" {
		h, addr, stop, spErr := startSpectator(flagSpectate, logger)
		if spErr != nil {
			return spErr
		}
		defer stop()
		hub = h
		fmt.Fprintf(os.Stderr, "Spectators: ws://%s/ws  http://%s/snapshot\n", addr, addr)
	}

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			return err
		}
		cfg = result.Config

		switch {
		case result.Quit:
			return nil

		case result.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		if err := checkVariant(result.GameID); err != nil {
			return err
		}
		game, err := registry.Create(result.GameID)
		if err != nil {
			logger.Error("could not create game", "game", result.GameID, "error", err)
			continue
		}

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		logger.Info("game started", "game", result.GameID, "player", cfg.Player)
		if err := tui.Run(game, cfg, gameOptions(store, logger, hub)); err != nil {
			return err
		}
	}
}
