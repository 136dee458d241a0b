package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-towerdefense/internal/platform/tui"
	"github.com/vovakirdan/tui-towerdefense/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick boards from an interactive menu",
	Long: `Start in menu mode. Each finished game returns to the menu, which shows
the best run recorded on every board.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Play the board
  Tab          - Scoreboard
  Q            - Quit

Examples:
  tdarcade menu
  tdarcade menu --difficulty easy
  tdarcade menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := terminalConfig()
	for {
		res, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = res.Config

		if res.Quit {
			return
		}

		if res.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if !goBack {
				return
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			logger.Error("cannot create board", "board", res.GameID, "err", err)
			continue
		}
		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
