// Package towerdefense adapts the simulation engine to the arcade platform:
// it turns key actions into session commands, drives Update at the tick
// rate and draws the board into a screen buffer.
package towerdefense

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-towerdefense/internal/config"
	"github.com/vovakirdan/tui-towerdefense/internal/core"
	"github.com/vovakirdan/tui-towerdefense/internal/games/towerdefense/engine"
	"github.com/vovakirdan/tui-towerdefense/internal/registry"
)

// ClassicID is the board with the carved default path.
const ClassicID = "td"

// messageSeconds is how long a status message stays on screen.
const messageSeconds = 2.5

// Package-level settings shared by every board, set from the CLI before
// games are created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the YAML file loaded on Reset. Empty uses the search
// path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset selects easy, normal, hard or fixed. Empty keeps the
// file's settings.
func SetDifficultyPreset(p config.DifficultyPreset) {
	difficultyPreset = p
}

// SetLogger routes session logs. Nil restores the discard logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          ClassicID,
		Title:       "Tower Defense",
		Description: "16x16 serpentine path, 15 waves",
	}, func() registry.Game { return New() })

	for _, id := range config.MapIDs() {
		m, err := config.LoadMap(id)
		if err != nil {
			continue
		}
		mapID := id
		registry.Register(registry.GameInfo{
			ID:          ClassicID + "_" + mapID,
			Title:       "Tower Defense: " + m.Title,
			Description: fmt.Sprintf("%dx%d authored map", mapWidth(m.Layout), len(m.Layout)),
		}, func() registry.Game { return NewMap(mapID) })
	}
}

func mapWidth(rows []string) int {
	w := 0
	for _, r := range rows {
		w = max(w, len([]rune(r)))
	}
	return w
}

// Game is one board. It implements registry.Game, registry.RunReporter and
// registry.Resizer.
type Game struct {
	mapID   string
	title   string
	session *engine.Session
	loadErr error
	cursor  engine.Coord
	dt      float64 // seconds per tick
	screenW int
	screenH int

	message      string
	messageLeft  int
	messageIsErr bool
}

// New creates the classic board.
func New() *Game {
	return &Game{title: "Tower Defense"}
}

// NewMap creates a board from an embedded map.
func NewMap(mapID string) *Game {
	g := &Game{mapID: mapID, title: "Tower Defense: " + mapID}
	if m, err := config.LoadMap(mapID); err == nil {
		g.title = "Tower Defense: " + m.Title
	}
	return g
}

// ID returns the board identifier.
func (g *Game) ID() string {
	if g.mapID == "" {
		return ClassicID
	}
	return ClassicID + "_" + g.mapID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Rules loads the rule set for this board from the configured sources.
func (g *Game) Rules() (engine.Rules, error) {
	cfg, err := config.LoadTowerDefense(configPath)
	if err != nil {
		return engine.Rules{}, err
	}
	config.ApplyTowerDefensePreset(&cfg, difficultyPreset)
	if g.mapID != "" {
		m, err := config.LoadMap(g.mapID)
		if err != nil {
			return engine.Rules{}, err
		}
		cfg.Grid.Layout = m.Layout
	}
	return engine.RulesFromConfig(cfg)
}

// Reset builds a fresh session.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.dt = cfg.TickDuration().Seconds()
	g.screenW, g.screenH = cfg.ScreenW, cfg.ScreenH
	g.message, g.messageLeft = "", 0

	rules, err := g.Rules()
	if err == nil {
		g.session, err = engine.NewSession(rules, engine.WithLogger(logger.With("board", g.ID())))
	}
	if err != nil {
		g.loadErr = err
		g.session = nil
		logger.Error("cannot build board", "board", g.ID(), "err", err)
		return
	}
	g.loadErr = nil
	w, h := g.session.Size()
	g.cursor = engine.C(w/2, h/2)
	g.notify("Select a tower (1-4), place with space, start with n", false)
}

// Resize updates the screen size without restarting the run.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
}

// Step applies the frame's actions and advances the simulation one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)

	if _, err := g.session.Update(g.dt); err != nil {
		g.notify(err.Error(), true)
	}

	if g.messageLeft > 0 {
		g.messageLeft--
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) handleInput(in core.InputFrame) {
	s := g.session

	if in.Has(core.ActionRestart) {
		if err := s.Reset(); err != nil {
			g.notify(err.Error(), true)
			return
		}
		g.notify("Board reset", false)
		return
	}

	g.moveCursor(in)

	for i, a := range core.SelectActions {
		if in.Has(a) && i < len(engine.TowerTypes) {
			g.selectTower(engine.TowerTypes[i])
		}
	}
	if in.Has(core.ActionDeselect) {
		g.selectTower(engine.TowerNone)
	}

	x, y := g.cursor.X, g.cursor.Y
	switch {
	case in.Has(core.ActionPlace):
		if s.Selected() == engine.TowerNone {
			g.notify("Select a tower first (1-4)", true)
			break
		}
		if t, err := s.PlaceTower(x, y); err != nil {
			g.reject(err)
		} else {
			g.notify(fmt.Sprintf("Built %s for $%d", t.Type, t.Cost), false)
		}
	case in.Has(core.ActionUpgrade):
		t, ok := s.TowerAt(x, y)
		if !ok {
			g.notify("No tower here", true)
			break
		}
		if up, err := s.UpgradeTower(t.ID); err != nil {
			g.reject(err)
		} else {
			g.notify(fmt.Sprintf("%s upgraded to level %d", up.Type, up.Level), false)
		}
	case in.Has(core.ActionSell):
		t, ok := s.TowerAt(x, y)
		if !ok {
			g.notify("No tower here", true)
			break
		}
		if refund, err := s.SellTower(t.ID); err != nil {
			g.reject(err)
		} else {
			g.notify(fmt.Sprintf("Sold %s for $%d", t.Type, refund), false)
		}
	}

	if in.Has(core.ActionStart) && s.Status() == engine.StatusIdle {
		if err := s.Start(); err != nil {
			g.reject(err)
		} else {
			g.notify(fmt.Sprintf("Wave %d incoming", s.Wave().Number), false)
		}
	}

	if in.Has(core.ActionPause) {
		switch s.Status() {
		case engine.StatusPlaying:
			_ = s.Pause()
		case engine.StatusPaused:
			_ = s.Resume()
		}
	}
}

func (g *Game) moveCursor(in core.InputFrame) {
	w, h := g.session.Size()
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Y--
	case in.Has(core.ActionDown):
		g.cursor.Y++
	}
	switch {
	case in.Has(core.ActionLeft):
		g.cursor.X--
	case in.Has(core.ActionRight):
		g.cursor.X++
	}
	g.cursor.X = core.Clamp(g.cursor.X, 0, max(0, w-1))
	g.cursor.Y = core.Clamp(g.cursor.Y, 0, max(0, h-1))
}

func (g *Game) selectTower(t engine.TowerType) {
	if err := g.session.SelectTowerType(t); err != nil {
		g.reject(err)
		return
	}
	if t == engine.TowerNone {
		g.notify("Selection cleared", false)
		return
	}
	st := g.session.Rules().Towers[t]
	g.notify(fmt.Sprintf("%s selected ($%d)", t, st.Cost), false)
}

// reject turns a command error into a player-facing message.
func (g *Game) reject(err error) {
	switch engine.CodeOf(err) {
	case engine.CodeInsufficientFunds:
		g.notify("Not enough money", true)
	case engine.CodeInvalidPlacement:
		g.notify("Can't build there", true)
	case engine.CodeInvalidState:
		g.notify("Not now: game is "+string(g.session.Status()), true)
	default:
		g.notify(err.Error(), true)
	}
}

func (g *Game) notify(msg string, isErr bool) {
	g.message = msg
	g.messageIsErr = isErr
	g.messageLeft = int(messageSeconds / g.dt)
}

// State reports score and lifecycle to the platform.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	st := g.session.Status()
	return core.GameState{
		Score:    g.session.Snapshot().Score,
		GameOver: st.Terminal(),
		Victory:  st == engine.StatusVictory,
		Paused:   st == engine.StatusPaused,
	}
}

// RunSummary describes the run once it has ended.
func (g *Game) RunSummary() (core.RunSummary, bool) {
	if g.session == nil || !g.session.Status().Terminal() {
		return core.RunSummary{}, false
	}
	snap := g.session.Snapshot()
	outcome := core.OutcomeDefeat
	if snap.Status == engine.StatusVictory {
		outcome = core.OutcomeVictory
	}
	return core.RunSummary{
		Outcome:  outcome,
		Wave:     snap.Wave.Number,
		Lives:    snap.Lives,
		Money:    snap.Money,
		Kills:    snap.Kills,
		Score:    snap.Score,
		Duration: time.Duration(snap.Elapsed * float64(time.Second)),
	}, true
}

// Snapshot exposes the session state for tests and tooling.
func (g *Game) Snapshot() engine.Snapshot {
	if g.session == nil {
		return engine.Snapshot{}
	}
	return g.session.Snapshot()
}

// Cursor returns the highlighted cell.
func (g *Game) Cursor() engine.Coord {
	return g.cursor
}

// Err returns the error that prevented the board from loading, if any.
func (g *Game) Err() error {
	return g.loadErr
}

var (
	_ registry.Game        = (*Game)(nil)
	_ registry.RunReporter = (*Game)(nil)
	_ registry.Resizer     = (*Game)(nil)
)
