package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
	"github.com/vovakirdan/tui-towerdefense/internal/registry"
	"github.com/vovakirdan/tui-towerdefense/internal/storage"
)

// footerHeight is the row reserved below the board for key help.
const footerHeight = 1

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model that drives one board.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keys       GameKeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState

	// backEnabled lets esc/b leave the board, used inside a menu session.
	backEnabled bool
	backToMenu  bool
	quitting    bool
	runSaved    bool // the current run has been recorded
}

// NewModel creates a model for the given game. store may be nil.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(0, cfg.ScreenH-footerHeight)),
		store:      store,
		logger:     log.Default(),
		config:     cfg,
		keys:       DefaultGameKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
	}
}

// WithBack returns a copy whose back key returns to the menu.
func (m Model) WithBack() Model {
	m.backEnabled = true
	return m
}

// boardConfig is the runtime config the game sees: the screen minus the
// footer.
func (m Model) boardConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(0, cfg.ScreenH-footerHeight)
	return cfg
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.boardConfig())
	return tickCmd(m.config.TickDuration())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.backEnabled {
			m.backToMenu = true
		}
		return m, nil
	}

	if a := m.keys.Action(msg); a != core.ActionNone {
		m.inputFrame.Set(a)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width

	cfg := m.boardConfig()
	m.screen.Resize(cfg.ScreenW, cfg.ScreenH)

	// boards that follow a resize keep their run; others restart unless
	// the final screen is showing
	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(cfg.ScreenW, cfg.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(cfg)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.runSaved:
		m.saveRun()
		m.runSaved = true
	case !m.gameState.GameOver:
		m.runSaved = false
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickDuration())
}

// saveRun records the finished run. Boards that report a run summary get a
// full runs row; others only a score.
func (m *Model) saveRun() {
	if m.store == nil {
		return
	}

	if rr, ok := m.game.(registry.RunReporter); ok {
		if sum, ok := rr.RunSummary(); ok {
			id, err := m.store.SaveRun(storage.Run{
				GameID:   m.game.ID(),
				Outcome:  string(sum.Outcome),
				Wave:     sum.Wave,
				Lives:    sum.Lives,
				Money:    sum.Money,
				Kills:    sum.Kills,
				Score:    sum.Score,
				Duration: sum.Duration,
			})
			if err != nil {
				m.logger.Error("cannot save run", "game", m.game.ID(), "err", err)
				return
			}
			m.logger.Debug("run saved", "game", m.game.ID(), "run", id, "outcome", sum.Outcome, "wave", sum.Wave)
			return
		}
	}

	if m.gameState.Score > 0 {
		if _, err := m.store.SaveScore(m.game.ID(), m.gameState.Score); err != nil {
			m.logger.Error("cannot save score", "game", m.game.ID(), "err", err)
		}
	}
}

// saveScreenshot writes the current board as plain text under
// ~/.tdarcade/screenshots.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".tdarcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the board and the help footer.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	if m.help.ShowAll {
		return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center,
			"KEYS\n\n"+m.help.View(m.keys))
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + footerStyle.Render(m.help.View(m.keys))
}

// IsQuitting reports whether the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu reports whether the user asked to return to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a Bubble Tea program for one board.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewModel(game, store, cfg),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
