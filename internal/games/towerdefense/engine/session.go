package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/looplab/fsm"
)

// fsm event names
const (
	eventStart  = "start"
	eventPause  = "pause"
	eventResume = "resume"
	eventLose   = "lose"
	eventWin    = "win"
	eventReset  = "reset"
)

// Session is a single game: the committed state, the lifecycle machine and
// the player's current tower selection. It is not safe for concurrent use;
// commands and Update must be serialized by the caller.
type Session struct {
	rules    Rules
	sim      *Simulation
	machine  *fsm.FSM
	logger   *log.Logger
	state    State
	selected TowerType
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates an idle session. It fails only when an authored
// layout does not describe a single walkable path.
func NewSession(r Rules, opts ...Option) (*Session, error) {
	s := &Session{
		rules:  r,
		sim:    NewSimulation(r),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	st, err := s.initialState()
	if err != nil {
		return nil, err
	}
	s.state = st

	all := []string{
		string(StatusIdle), string(StatusPlaying), string(StatusPaused),
		string(StatusGameOver), string(StatusVictory),
	}
	s.machine = fsm.NewFSM(
		string(StatusIdle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(StatusIdle)}, Dst: string(StatusPlaying)},
			{Name: eventPause, Src: []string{string(StatusPlaying)}, Dst: string(StatusPaused)},
			{Name: eventResume, Src: []string{string(StatusPaused)}, Dst: string(StatusPlaying)},
			{Name: eventLose, Src: []string{string(StatusPlaying)}, Dst: string(StatusGameOver)},
			{Name: eventWin, Src: []string{string(StatusPlaying)}, Dst: string(StatusVictory)},
			{Name: eventReset, Src: all, Dst: string(StatusIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.logger.Debug("status changed", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
	return s, nil
}

func (s *Session) initialState() (State, error) {
	g, p, err := s.rules.BuildGrid()
	if err != nil {
		return State{}, fmt.Errorf("engine: build grid: %w", err)
	}
	return State{
		Status:   StatusIdle,
		Money:    s.rules.StartMoney,
		Lives:    s.rules.StartLives,
		Grid:     g,
		Path:     p,
		Registry: NewRegistry(),
	}, nil
}

// transition fires an fsm event and mirrors the result into the state.
func (s *Session) transition(st *State, event string) error {
	if err := s.machine.Event(context.Background(), event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return rejectf(CodeInvalidState, "%s from %s: %v", event, s.machine.Current(), err)
		}
	}
	st.Status = Status(s.machine.Current())
	return nil
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	return s.state.Status
}

// Rules returns the rule set the session was built with.
func (s *Session) Rules() Rules {
	return s.rules
}

// Selected returns the tower type that PlaceTower will build.
func (s *Session) Selected() TowerType {
	return s.selected
}

// SelectTowerType chooses what PlaceTower builds. TowerNone clears the
// selection. Not allowed once the game has ended.
func (s *Session) SelectTowerType(t TowerType) error {
	if s.state.Status.Terminal() {
		return s.reject(rejectf(CodeInvalidState, "cannot select a tower while %s", s.state.Status))
	}
	if t != TowerNone {
		if _, ok := s.rules.Towers[t]; !ok {
			return s.reject(rejectf(CodeInvalidPlacement, "no stats for tower %s", t))
		}
	}
	s.selected = t
	return nil
}

// PlaceTower builds the selected tower at (x, y). The selection is kept so
// several towers of one type can be placed in a row.
func (s *Session) PlaceTower(x, y int) (Tower, error) {
	st := &s.state
	if st.Status.Terminal() {
		return Tower{}, s.reject(rejectf(CodeInvalidState, "cannot place while %s", st.Status))
	}
	if s.selected == TowerNone {
		return Tower{}, s.reject(rejectf(CodeInvalidPlacement, "no tower type selected"))
	}
	if !IsPlaceable(st.Grid, x, y) {
		return Tower{}, s.reject(rejectf(CodeInvalidPlacement, "cell (%d,%d) is not free", x, y))
	}
	stats := s.rules.Towers[s.selected]
	if stats.Cost > st.Money {
		return Tower{}, s.reject(rejectf(CodeInsufficientFunds, "%s costs %d, have %d", s.selected, stats.Cost, st.Money))
	}

	id := st.Registry.NextID()
	t, _ := s.rules.NewTower(id, s.selected, C(x, y), st.Grid.Width, st.Grid.Height)
	st.Registry.AddTower(t)
	st.Grid.setType(x, y, CellTower, id)
	st.Money -= t.Cost

	s.logger.Debug("tower placed", "id", id, "type", t.Type, "x", x, "y", y, "money", st.Money)
	return t, nil
}

// UpgradeTower raises a tower one level, scaling its stats and cost.
func (s *Session) UpgradeTower(id EntityID) (Tower, error) {
	st := &s.state
	if st.Status.Terminal() {
		return Tower{}, s.reject(rejectf(CodeInvalidState, "cannot upgrade while %s", st.Status))
	}
	t, ok := st.Registry.Tower(id)
	if !ok {
		return Tower{}, s.reject(rejectf(CodeUnknownEntity, "tower %d", id))
	}
	cost := s.rules.UpgradeCost(*t)
	if cost > st.Money {
		return Tower{}, s.reject(rejectf(CodeInsufficientFunds, "upgrade costs %d, have %d", cost, st.Money))
	}

	up := s.rules.Upgrade
	st.Money -= cost
	t.Level++
	t.Damage *= up.Damage
	t.Range *= up.Range
	t.Cooldown *= up.Cooldown
	t.CurrentCooldown = math.Min(t.CurrentCooldown, t.Cooldown)
	t.Cost = cost
	t.RangeCells = CellsInRange(t.Pos.X, t.Pos.Y, t.Range, st.Grid.Width, st.Grid.Height)

	s.logger.Debug("tower upgraded", "id", id, "level", t.Level, "money", st.Money)
	return *t, nil
}

// SellTower removes a tower, refunds part of its cost and frees the cell.
// It returns the refund.
func (s *Session) SellTower(id EntityID) (int, error) {
	st := &s.state
	if st.Status.Terminal() {
		return 0, s.reject(rejectf(CodeInvalidState, "cannot sell while %s", st.Status))
	}
	t, ok := st.Registry.RemoveTower(id)
	if !ok {
		return 0, s.reject(rejectf(CodeUnknownEntity, "tower %d", id))
	}
	refund := s.rules.SellValue(t)
	st.Money += refund
	st.Grid.setType(t.Pos.X, t.Pos.Y, CellEmpty, NoEntity)

	s.logger.Debug("tower sold", "id", id, "refund", refund, "money", st.Money)
	return refund, nil
}

// Start begins the first wave. An empty wave table ends in victory at once.
func (s *Session) Start() error {
	if s.state.Status != StatusIdle {
		return s.reject(rejectf(CodeInvalidState, "cannot start while %s", s.state.Status))
	}
	if !s.state.Path.Usable() {
		return s.reject(rejectf(CodeInvalidState, "no usable path"))
	}

	next := s.state
	if err := s.transition(&next, eventStart); err != nil {
		return err
	}
	w, ok := s.sim.director.Advance(0)
	if !ok {
		if err := s.transition(&next, eventWin); err != nil {
			return err
		}
		s.state = next
		s.logger.Info("victory", "reason", "no waves configured")
		return nil
	}
	next.Wave = w
	s.state = next
	s.logger.Info("wave started", "wave", w.Number, "minions", w.TotalCount)
	return nil
}

// Pause suspends ticking.
func (s *Session) Pause() error {
	if s.state.Status != StatusPlaying {
		return s.reject(rejectf(CodeInvalidState, "cannot pause while %s", s.state.Status))
	}
	return s.transition(&s.state, eventPause)
}

// Resume continues a paused game.
func (s *Session) Resume() error {
	if s.state.Status != StatusPaused {
		return s.reject(rejectf(CodeInvalidState, "cannot resume while %s", s.state.Status))
	}
	return s.transition(&s.state, eventResume)
}

// Reset returns to a fresh idle game on the original board.
func (s *Session) Reset() error {
	st, err := s.initialState()
	if err != nil {
		return err
	}
	if err := s.transition(&st, eventReset); err != nil {
		return err
	}
	s.state = st
	s.selected = TowerNone
	s.logger.Debug("session reset")
	return nil
}

// Update advances the game by dt seconds. It does nothing unless playing.
// The tick commits as a whole or not at all.
func (s *Session) Update(dt float64) (TickReport, error) {
	if dt < 0 || math.IsNaN(dt) {
		return TickReport{}, ErrNegativeDelta
	}
	if s.state.Status != StatusPlaying {
		return TickReport{Tick: s.state.Tick, Status: s.state.Status}, nil
	}

	next, report, err := s.sim.Step(s.state, dt)
	if err != nil {
		return TickReport{}, err
	}

	switch next.Status {
	case StatusGameOver:
		next.Status = StatusPlaying
		if err := s.transition(&next, eventLose); err != nil {
			return TickReport{}, err
		}
	case StatusVictory:
		next.Status = StatusPlaying
		if err := s.transition(&next, eventWin); err != nil {
			return TickReport{}, err
		}
	}
	s.state = next
	s.logReport(report)
	return report, nil
}

func (s *Session) logReport(r TickReport) {
	if r.Spawned != NoEntity {
		s.logger.Debug("minion spawned", "id", r.Spawned, "wave", s.state.Wave.Number)
	}
	for _, id := range r.Escaped {
		s.logger.Debug("minion escaped", "id", id, "lives", s.state.Lives)
	}
	if r.WaveCleared > 0 {
		s.logger.Info("wave cleared", "wave", r.WaveCleared, "money", s.state.Money)
	}
	if r.WaveStarted > 0 {
		s.logger.Info("wave started", "wave", r.WaveStarted, "minions", s.state.Wave.TotalCount)
	}
	switch r.Status {
	case StatusGameOver:
		s.logger.Info("game over", "wave", s.state.Wave.Number, "score", s.state.Score)
	case StatusVictory:
		s.logger.Info("victory", "lives", s.state.Lives, "score", s.state.Score)
	}
}

func (s *Session) reject(err error) error {
	s.logger.Debug("command rejected", "err", err)
	return err
}

// Queries. Slices and grids are copies; mutating them does not affect the
// session.

// Grid returns a copy of the board.
func (s *Session) Grid() *Grid { return s.state.Grid.Clone() }

// Size returns the board dimensions.
func (s *Session) Size() (width, height int) {
	return s.state.Grid.Width, s.state.Grid.Height
}

// Path returns the minion route.
func (s *Session) Path() Path { return append(Path(nil), s.state.Path...) }

// Towers returns every tower in ID order.
func (s *Session) Towers() []Tower { return s.state.Registry.Towers() }

// AliveMinions returns the living minions in ID order.
func (s *Session) AliveMinions() []Minion { return s.state.Registry.AliveMinions() }

// Minions returns all minions still tracked, recent corpses included.
func (s *Session) Minions() []Minion { return s.state.Registry.Minions() }

// Money returns the current funds.
func (s *Session) Money() int { return s.state.Money }

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.state.Lives }

// Wave returns the active wave.
func (s *Session) Wave() Wave { return s.state.Wave }

// WaveCount returns the number of configured waves.
func (s *Session) WaveCount() int { return s.sim.director.Count() }

// TowerAt returns the tower on (x, y).
func (s *Session) TowerAt(x, y int) (Tower, bool) {
	t, ok := s.state.Registry.TowerAt(C(x, y))
	if !ok {
		return Tower{}, false
	}
	return *t, true
}

// State returns a deep copy of the committed state.
func (s *Session) State() State { return s.state.Clone() }
