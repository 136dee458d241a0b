package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-towerdefense/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all boards",
	Long:  `Shows every registered board: the classic board and the bundled maps.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No boards available.")
		return
	}

	idW, titleW := len("ID"), len("Title")
	for _, g := range games {
		idW = max(idW, len(g.ID))
		titleW = max(titleW, len(g.Title))
	}

	fmt.Println("Available boards:")
	fmt.Println()
	fmt.Printf("  %-*s  %-*s  %s\n", idW, "ID", titleW, "Title", "Board")
	fmt.Printf("  %-*s  %-*s  %s\n", idW, "--", titleW, "-----", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %-*s  %s\n", idW, g.ID, titleW, g.Title, g.Description)
	}

	fmt.Println()
	fmt.Println("Run 'tdarcade play <id>' to play a board.")
}
