package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-towerdefense/internal/registry"
	"github.com/vovakirdan/tui-towerdefense/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [board]",
	Short: "Show the best runs",
	Long: `Without a board, show a summary of every board and the latest runs.
With a board, show its best runs: furthest wave first, then score.

Examples:
  tdarcade scores
  tdarcade scores td_maze
  tdarcade scores td --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every run and score of the board")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagScoresClear {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a board")
			os.Exit(1)
		}
		printSummary(store)
		return
	}

	gameID := args[0]
	info, ok := registry.Lookup(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown board %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tdarcade list' to see available boards.")
		os.Exit(1)
	}

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all runs of %s.\n", info.Title)
		return
	}

	runs, err := store.TopRuns(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best runs - %s\n\n", info.Title)
	if len(runs) == 0 {
		if printScores(store, gameID) {
			return
		}
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tdarcade play %s' to set the first record!\n", gameID)
		return
	}

	printRuns(runs, false)

	if st, err := store.GetRunStats(gameID); err == nil {
		fmt.Println()
		fmt.Printf("%d runs, %d won, best wave %d, best score %d, %d kills\n",
			st.Runs, st.Victories, st.BestWave, st.BestScore, st.Kills)
	}
}

func printSummary(store *storage.Store) {
	fmt.Println("Boards")
	fmt.Println()
	fmt.Printf("  %-10s  %5s  %4s  %9s  %10s\n", "Board", "Runs", "Won", "Best wave", "Best score")
	for _, g := range registry.List() {
		st, err := store.GetRunStats(g.ID)
		if err != nil {
			logger.Warn("cannot read stats", "board", g.ID, "err", err)
			continue
		}
		fmt.Printf("  %-10s  %5d  %4d  %9d  %10d\n", g.ID, st.Runs, st.Victories, st.BestWave, st.BestScore)
	}

	// boards that only ever recorded a plain score
	if all, err := store.GetAllGamesStats(); err == nil {
		for id, gs := range all {
			if registry.Exists(id) {
				continue
			}
			fmt.Printf("  %-10s  %5d  %4s  %9s  %10d\n", id, gs.GamesCount, "-", "-", gs.HighScore)
		}
	}

	recent, err := store.RecentRuns(flagScoresLimit)
	if err != nil || len(recent) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Latest runs")
	fmt.Println()
	printRuns(recent, true)
}

func printRuns(runs []storage.Run, withBoard bool) {
	board := func(r storage.Run) string {
		if withBoard {
			return fmt.Sprintf("%-10s  ", r.GameID)
		}
		return ""
	}

	head := storage.Run{GameID: "Board"}
	fmt.Printf("  %-4s  %s%-4s  %-6s  %-5s  %-5s  %-7s  %-8s  %s\n",
		"Rank", board(head), "Wave", "Score", "Lives", "Kills", "Result", "Time", "Date")
	for i, r := range runs {
		fmt.Printf("  %-4d  %s%-4d  %-6d  %-5d  %-5d  %-7s  %-8s  %s\n",
			i+1, board(r), r.Wave, r.Score, r.Lives, r.Kills, r.Outcome,
			r.Duration.String(), r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// printScores lists the plain scores of a board without recorded runs. It
// reports whether there was anything to show.
func printScores(store *storage.Store, gameID string) bool {
	stats, err := store.GetGameStats(gameID)
	if err != nil || stats.GamesCount == 0 {
		return false
	}
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		logger.Warn("cannot read scores", "board", gameID, "err", err)
		return false
	}

	fmt.Printf("  %-4s  %-8s  %s\n", "Rank", "Score", "Date")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-8d  %s\n", i+1, e.Score, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Printf("%d games, best %d, average %.0f, last played %s\n",
		stats.GamesCount, stats.HighScore, stats.AvgScore, stats.LastPlayed.Format("2006-01-02 15:04"))
	return true
}
