package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
	"github.com/vovakirdan/tui-towerdefense/internal/games/towerdefense"
	"github.com/vovakirdan/tui-towerdefense/internal/platform/tui"
	"github.com/vovakirdan/tui-towerdefense/internal/registry"
	"github.com/vovakirdan/tui-towerdefense/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [board]",
	Short: "Play a board",
	Long: `Start playing the given board, or the classic board when none is named.

Controls:
  Arrows/hjkl  - Move the cursor
  1-4          - Select Gunner, Frost, Flamethrower, Tesla
  0            - Clear the selection
  Space/Enter  - Build the selected tower
  U            - Upgrade the tower under the cursor
  X            - Sell the tower under the cursor
  N            - Start the first wave
  P            - Pause / resume
  R            - Restart
  ?            - Show all keys
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - More money and lives, minions scale slowly
  normal - The configured economy, mild scaling
  hard   - Less money and lives, strong scaling
  fixed  - No scaling across waves

Examples:
  tdarcade play
  tdarcade play td_spiral
  tdarcade play --difficulty hard
  tdarcade play --config ./my-td.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := towerdefense.ClassicID
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown board %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tdarcade list' to see available boards.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating board: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	runErr := tui.Run(game, store, terminalConfig())
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// terminalConfig sizes the runtime config to the terminal, falling back to
// 80x24.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	return cfg
}

// openStore opens the runs database. Games still work without it, so a
// failure is only logged.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database, runs will not be saved", "err", err)
		return nil
	}
	return store
}
