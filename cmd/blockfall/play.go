package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/spectate"
)

var (
	flagConfig   string
	flagSpectate string
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a variant",
	Long: `Start playing the given variant (default: blockfall).

Controls:
  Left/Right/A/D  - Move
  Down/S          - Soft drop
  Up/X            - Rotate clockwise
  Z               - Rotate counterclockwise
  Space/Enter     - Start, then pause/unpause
  P               - Pause/unpause
  Esc             - End the game
  R               - Restart (after game over)
  Ctrl+S          - Save a text screenshot
  Q/Ctrl+C        - Quit

Examples:
  blockfall play
  blockfall play blockfall_classic
  blockfall play --config ./my-blockfall.yaml
  blockfall play --spectate :8090 --player ann`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Serve a read-only spectator stream on this address (e.g. :8090)")
}

// checkVariant fails fast on an unknown variant or a bad --config file, so
// errors show before the screen is taken over.
func checkVariant(gameID string) error {
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 'blockfall list' to see available variants", gameID)
	}
	if flagConfig != "" {
		if _, err := config.Load(gameID, flagConfig); err != nil {
			return err
		}
	}
	blockfall.SetConfigPath(flagConfig)
	return nil
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := config.VariantStandard
	if len(args) > 0 {
		gameID = args[0]
	}
	if err := checkVariant(gameID); err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

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

	logger.Info("game started", "game", gameID, "player", flagPlayer)
	return tui.Run(game, runtimeConfig(), gameOptions(store, logger, hub))
}
