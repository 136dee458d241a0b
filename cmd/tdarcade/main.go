// tdarcade is a terminal tower defense game.
//
// Usage:
//
//	tdarcade list              - List available boards
//	tdarcade play [board]      - Play a board (default: td)
//	tdarcade menu              - Pick boards interactively
//	tdarcade serve             - Start SSH server for remote play
//	tdarcade scores [board]    - Show the best runs
//	tdarcade simulate [board]  - Run a board headless with scripted towers
//
// Global flags:
//
//	--fps <rate>          - Tick rate (default: 30)
//	--db <path>           - Runs database (default: ~/.tdarcade/scores.db)
//	--config <path>       - Tower defense YAML config
//	--difficulty <preset> - easy, normal, hard or fixed
//	--verbose             - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-towerdefense/internal/config"
	"github.com/vovakirdan/tui-towerdefense/internal/core"
	"github.com/vovakirdan/tui-towerdefense/internal/games/towerdefense"
)

var (
	flagFPS        int
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagVerbose    bool
)

// logger writes to stderr so it never corrupts the game screen on stdout.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "tdarcade",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tdarcade",
	Short: "Tower defense in your terminal",
	Long: `tdarcade is a grid tower defense game for the terminal.

Build Gunner, Frost, Flamethrower and Tesla towers beside the path and
hold off fifteen waves of minions.

Available commands:
  list      - Show all boards
  play      - Play a board directly
  menu      - Interactive board picker
  serve     - Start SSH server for remote play
  scores    - View the best runs
  simulate  - Run a board without a terminal

Examples:
  tdarcade play
  tdarcade play td_maze --difficulty hard
  tdarcade menu
  tdarcade serve --ssh :2222
  tdarcade simulate --place Gunner@3,7 --place Frost@5,12`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
		log.SetDefault(logger)
		towerdefense.SetLogger(logger)

		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return err
		}
		towerdefense.SetConfigPath(flagConfig)
		towerdefense.SetDifficultyPreset(preset)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (simulation steps per second)")
	pf.StringVar(&flagDBPath, "db", "~/.tdarcade/scores.db", "Path to runs database")
	pf.StringVar(&flagConfig, "config", "", "Path to tower defense config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log simulation events at debug level")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
}
