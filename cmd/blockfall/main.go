// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall list              - List available variants
//	blockfall play [variant]    - Play a variant (default: blockfall)
//	blockfall menu              - Pick variants interactively
//	blockfall serve             - Start SSH server for remote play
//	blockfall scores [variant]  - Show high scores for a variant
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.arcade/blockfall.db)
//	--player <name>     - Name scores are recorded under (default: $USER)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Where logs go while the game is on screen
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/blockfall/internal/games/blockfall"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagPlayer   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - stack falling blocks in your terminal",
	Long: `Blockfall drops three-by-three pieces onto a board. Move and rotate
them, fill rows to clear them, and keep the stack below the top.

Available commands:
  list     - Show all variants
  play     - Play a variant directly
  menu     - Interactive variant picker
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  blockfall play
  blockfall play blockfall_classic --spectate :8090
  blockfall menu --player ann
  blockfall serve --ssh :2222
  blockfall scores --interactive`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/blockfall.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", defaultPlayer(), "Name scores are recorded under")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while the game is on screen (default: discard)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
