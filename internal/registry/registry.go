// Package registry maps board IDs to game factories. Boards register
// themselves in init(), so the CLI and the SSH server can list and create
// them without importing each one.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
)

// Game is what the terminal platform drives: a fixed-tick simulation that
// takes semantic actions and draws into a screen buffer. Implementations
// must not depend on Bubble Tea.
type Game interface {
	// ID is the stable identifier used on the command line and in the
	// score tables, e.g. "td" or "td_maze".
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a fresh run. Called once at start and on restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances one tick with the actions triggered during it.
	Step(in core.InputFrame) core.StepResult

	// Render draws into a pre-cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// RunReporter is implemented by games that can describe a finished run in
// more detail than a score.
type RunReporter interface {
	// RunSummary returns the summary of the current run. ok is false
	// until the run has ended.
	RunSummary() (summary core.RunSummary, ok bool)
}

// Resizer is implemented by games that can follow a terminal resize
// without restarting. Others are Reset with the new size.
type Resizer interface {
	Resize(width, height int)
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new game instance.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a game factory. It panics on an empty or duplicate ID.
func Register(info GameInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if info.ID == "" {
		panic("registry: empty game id")
	}
	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns every registered game sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the metadata of a registered game.
func Lookup(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
