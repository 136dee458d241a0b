package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
	"github.com/vovakirdan/tui-towerdefense/internal/games/towerdefense"
	"github.com/vovakirdan/tui-towerdefense/internal/games/towerdefense/engine"
	"github.com/vovakirdan/tui-towerdefense/internal/registry"
	"github.com/vovakirdan/tui-towerdefense/internal/storage"
)

var (
	flagPlace    []string
	flagDT       float64
	flagMaxTicks int
	flagRecord   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [board]",
	Short: "Run a board headless with scripted towers",
	Long: `Build the given towers, start the waves and step the simulation with a
fixed time step until the run ends. Useful for balancing configs.

Towers are placed in order with --place Type@x,y and must be affordable
with the starting money.

Examples:
  tdarcade simulate --place Gunner@3,7 --place Gunner@5,12
  tdarcade simulate td_maze --place Tesla@7,2 --dt 0.05
  tdarcade simulate --config ./balance.yaml --place Frost@3,9 --record`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringArrayVar(&flagPlace, "place", nil, "Tower to build as Type@x,y (repeatable)")
	simulateCmd.Flags().Float64Var(&flagDT, "dt", 0.1, "Seconds per simulation step")
	simulateCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 200000, "Give up after this many steps")
	simulateCmd.Flags().BoolVar(&flagRecord, "record", false, "Save the run to the database")
}

// placement is one --place entry.
type placement struct {
	Type engine.TowerType
	X, Y int
}

// parsePlacement parses "Type@x,y".
func parsePlacement(s string) (placement, error) {
	name, pos, ok := strings.Cut(s, "@")
	if !ok {
		return placement{}, fmt.Errorf("placement %q: want Type@x,y", s)
	}
	tt, err := engine.ParseTowerType(strings.TrimSpace(name))
	if err != nil || tt == engine.TowerNone {
		return placement{}, fmt.Errorf("placement %q: unknown tower type %q", s, name)
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return placement{}, fmt.Errorf("placement %q: want Type@x,y", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return placement{}, fmt.Errorf("placement %q: bad coordinates", s)
	}
	return placement{Type: tt, X: x, Y: y}, nil
}

func runSimulate(_ *cobra.Command, args []string) error {
	if flagDT <= 0 {
		return fmt.Errorf("--dt must be positive")
	}

	gameID := towerdefense.ClassicID
	if len(args) == 1 {
		gameID = args[0]
	}
	g, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	board, ok := g.(*towerdefense.Game)
	if !ok {
		return fmt.Errorf("board %q cannot be simulated", gameID)
	}

	rules, err := board.Rules()
	if err != nil {
		return err
	}
	session, err := engine.NewSession(rules, engine.WithLogger(logger.With("board", gameID)))
	if err != nil {
		return err
	}

	for _, arg := range flagPlace {
		p, err := parsePlacement(arg)
		if err != nil {
			return err
		}
		if err := session.SelectTowerType(p.Type); err != nil {
			return err
		}
		t, err := session.PlaceTower(p.X, p.Y)
		if err != nil {
			return fmt.Errorf("place %s: %w", arg, err)
		}
		logger.Debug("tower built", "tower", t.Type, "at", t.Pos, "cost", t.Cost)
	}

	if err := session.Start(); err != nil {
		return err
	}

	start := time.Now()
	ticks := 0
	for ; ticks < flagMaxTicks && !session.Status().Terminal(); ticks++ {
		if _, err := session.Update(flagDT); err != nil {
			return err
		}
	}
	if !session.Status().Terminal() {
		logger.Warn("run did not finish", "ticks", ticks)
	}

	snap := session.Snapshot()
	fmt.Printf("Board:    %s\n", board.Title())
	fmt.Printf("Result:   %s after %d steps (%.1fs simulated, %s wall)\n",
		snap.Status, ticks, snap.Elapsed, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Wave:     %d/%d\n", snap.Wave.Number, snap.Wave.Total)
	fmt.Printf("Lives:    %d\n", snap.Lives)
	fmt.Printf("Money:    %d\n", snap.Money)
	fmt.Printf("Kills:    %d\n", snap.Kills)
	fmt.Printf("Score:    %d\n", snap.Score)
	fmt.Printf("Towers:   %d\n", len(snap.Towers))
	cells := session.Stats()
	fmt.Printf("Cells:    %d path, %d tower, %d empty\n", cells.Path, cells.Tower, cells.Empty)

	if !flagRecord || !snap.Status.Terminal() {
		return nil
	}

	outcome := core.OutcomeDefeat
	if snap.Status == engine.StatusVictory {
		outcome = core.OutcomeVictory
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	id, err := store.SaveRun(storage.Run{
		GameID:   gameID,
		Outcome:  string(outcome),
		Wave:     snap.Wave.Number,
		Lives:    snap.Lives,
		Money:    snap.Money,
		Kills:    snap.Kills,
		Score:    snap.Score,
		Duration: time.Duration(snap.Elapsed * float64(time.Second)),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Recorded: %s\n", id)
	return nil
}
