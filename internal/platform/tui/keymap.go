package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
)

// GameKeyMap holds the in-game bindings. Bindings that drive the board map
// to core actions; the rest are handled by the model itself.
type GameKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   [4]key.Binding
	Deselect key.Binding
	Place    key.Binding
	Upgrade  key.Binding
	Sell     key.Binding
	Start    key.Binding
	Pause    key.Binding
	Restart  key.Binding

	Help       key.Binding
	Screenshot key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the footer.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select[0], k.Place, k.Upgrade, k.Sell, k.Start, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select[0], k.Select[1], k.Select[2], k.Select[3], k.Deselect},
		{k.Place, k.Upgrade, k.Sell},
		{k.Start, k.Pause, k.Restart},
		{k.Screenshot, k.Back, k.Help, k.Quit},
	}
}

// DefaultGameKeyMap returns the default in-game bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("→/l", "right"),
		),
		Select: [4]key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1-4", "select tower")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "frost")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "flamethrower")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "tesla")),
		},
		Deselect: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear selection"),
		),
		Place: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "build"),
		),
		Upgrade: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upgrade"),
		),
		Sell: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "sell"),
		),
		Start: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key to the board action it triggers, or ActionNone.
func (k GameKeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Up):
		return core.ActionUp
	case key.Matches(msg, k.Down):
		return core.ActionDown
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Deselect):
		return core.ActionDeselect
	case key.Matches(msg, k.Place):
		return core.ActionPlace
	case key.Matches(msg, k.Upgrade):
		return core.ActionUpgrade
	case key.Matches(msg, k.Sell):
		return core.ActionSell
	case key.Matches(msg, k.Start):
		return core.ActionStart
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	}
	for i, b := range k.Select {
		if key.Matches(msg, b) {
			return core.SelectActions[i]
		}
	}
	return core.ActionNone
}

// MenuKeyMap holds the board picker bindings.
type MenuKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Scoreboard key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the footer.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Scoreboard, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns the default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Scoreboard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
