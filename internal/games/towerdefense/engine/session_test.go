package engine

import (
	"errors"
	"reflect"
	"testing"
)

func newTestSession(t *testing.T, mutate func(*Rules)) *Session {
	t.Helper()
	rules := DefaultRules()
	if mutate != nil {
		mutate(&rules)
	}
	s, err := NewSession(rules)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func singleGrunt(r *Rules) {
	r.Waves = []WaveConfig{{Minions: []MinionType{MinionGrunt}}}
}

// runUntil updates with dt=1 until the session stops playing or the tick
// limit is reached, returning the reports.
func runUntil(t *testing.T, s *Session, limit int) []TickReport {
	t.Helper()
	var reports []TickReport
	for i := 0; i < limit && s.Status() == StatusPlaying; i++ {
		r, err := s.Update(1)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		reports = append(reports, r)
	}
	return reports
}

func TestNewSessionIsIdle(t *testing.T) {
	s := newTestSession(t, nil)
	if s.Status() != StatusIdle {
		t.Errorf("status = %s, want idle", s.Status())
	}
	if s.Money() != 100 || s.Lives() != 20 {
		t.Errorf("money=%d lives=%d, want 100/20", s.Money(), s.Lives())
	}
	if len(s.Path()) != 32 {
		t.Errorf("path length = %d", len(s.Path()))
	}
	if s.Wave().Number != 0 {
		t.Errorf("wave = %d before start", s.Wave().Number)
	}
}

func TestNewSessionRejectsBadLayout(t *testing.T) {
	rules := DefaultRules()
	rules.Layout = []string{"#####", "..#..", "..#.."}
	if _, err := NewSession(rules); err == nil {
		t.Fatal("expected branching layout to be rejected")
	}
}

func TestPlacementRules(t *testing.T) {
	s := newTestSession(t, nil)

	if _, err := s.PlaceTower(0, 0); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("place without selection: err = %v", err)
	}
	if err := s.SelectTowerType(TowerGunner); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlaceTower(0, 8); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("place on path: err = %v", err)
	}
	if _, err := s.PlaceTower(99, 0); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("place out of bounds: err = %v", err)
	}

	tower, err := s.PlaceTower(0, 0)
	if err != nil {
		t.Fatalf("PlaceTower: %v", err)
	}
	if tower.Level != 1 || tower.Cost != 50 {
		t.Errorf("tower = %+v", tower)
	}
	if s.Money() != 50 {
		t.Errorf("money = %d, want 50", s.Money())
	}
	if c, _ := s.Grid().At(0, 0); c.Type != CellTower || c.TowerID != tower.ID {
		t.Errorf("cell = %+v", c)
	}
	if s.Selected() != TowerGunner {
		t.Error("selection should persist after placing")
	}

	if _, err := s.PlaceTower(0, 0); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("double placement: err = %v", err)
	}
	if s.Money() != 50 {
		t.Errorf("failed placement changed money to %d", s.Money())
	}
}

func TestMoneyNeverNegative(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.SelectTowerType(TowerTesla); err != nil {
		t.Fatal(err)
	}
	_, err := s.PlaceTower(0, 0)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
	if CodeOf(err) != CodeInsufficientFunds {
		t.Errorf("CodeOf = %q", CodeOf(err))
	}
	if s.Money() != 100 {
		t.Errorf("money = %d", s.Money())
	}
	if c, _ := s.Grid().At(0, 0); c.Type != CellEmpty {
		t.Error("rejected placement occupied the cell")
	}
}

func TestSellRefundsAndFreesCell(t *testing.T) {
	s := newTestSession(t, nil)
	_ = s.SelectTowerType(TowerGunner)
	tower, err := s.PlaceTower(2, 2)
	if err != nil {
		t.Fatal(err)
	}

	refund, err := s.SellTower(tower.ID)
	if err != nil {
		t.Fatal(err)
	}
	if refund != 25 {
		t.Errorf("refund = %d, want 25", refund)
	}
	if s.Money() != 75 {
		t.Errorf("money = %d, want 75", s.Money())
	}
	if !IsPlaceable(s.Grid(), 2, 2) {
		t.Error("cell should be free after selling")
	}
	if _, err := s.SellTower(tower.ID); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("second sell: err = %v", err)
	}
}

func TestUpgradeTower(t *testing.T) {
	s := newTestSession(t, func(r *Rules) { r.StartMoney = 1000 })
	_ = s.SelectTowerType(TowerGunner)
	tower, _ := s.PlaceTower(2, 2)

	up, err := s.UpgradeTower(tower.ID)
	if err != nil {
		t.Fatal(err)
	}
	if up.Level != 2 || up.Cost != 87 {
		t.Errorf("level=%d cost=%d, want 2/87", up.Level, up.Cost)
	}
	if !approx(up.Damage, 15) || !approx(up.Range, 3.6) || !approx(up.Cooldown, 0.8) {
		t.Errorf("stats = dmg %v range %v cd %v", up.Damage, up.Range, up.Cooldown)
	}
	if s.Money() != 1000-50-87 {
		t.Errorf("money = %d", s.Money())
	}
	if !reflect.DeepEqual(up.RangeCells, CellsInRange(2, 2, up.Range, 16, 16)) {
		t.Error("range cells not recomputed")
	}

	refund, _ := s.SellTower(tower.ID)
	if refund != 43 {
		t.Errorf("refund after upgrade = %d, want 43", refund)
	}
}

func TestUpgradeRequiresFunds(t *testing.T) {
	s := newTestSession(t, nil)
	_ = s.SelectTowerType(TowerGunner)
	tower, _ := s.PlaceTower(2, 2)

	if _, err := s.UpgradeTower(tower.ID); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("err = %v", err)
	}
	if _, err := s.UpgradeTower(999); !errors.Is(err, ErrUnknownEntity) {
		t.Errorf("unknown tower: err = %v", err)
	}
	if got, _ := s.TowerAt(2, 2); got.Level != 1 {
		t.Errorf("failed upgrade changed level to %d", got.Level)
	}
}

func TestStartLifecycle(t *testing.T) {
	s := newTestSession(t, nil)

	if _, err := s.Update(1); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().Tick != 0 {
		t.Error("idle session ticked")
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusPlaying || s.Wave().Number != 1 {
		t.Fatalf("status=%s wave=%d", s.Status(), s.Wave().Number)
	}
	if err := s.Start(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second start: err = %v", err)
	}

	if err := s.Pause(); err != nil {
		t.Fatal(err)
	}
	tick := s.Snapshot().Tick
	_, _ = s.Update(1)
	if s.Snapshot().Tick != tick {
		t.Error("paused session ticked")
	}
	if err := s.Pause(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double pause: err = %v", err)
	}
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusPlaying {
		t.Errorf("status after resume = %s", s.Status())
	}
}

func TestEscapeCostsLifeWithoutReward(t *testing.T) {
	s := newTestSession(t, singleGrunt)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	reports := runUntil(t, s, 100)

	if s.Lives() != 19 {
		t.Errorf("lives = %d, want 19", s.Lives())
	}
	if s.Money() != 100 {
		t.Errorf("money = %d, escape must not pay", s.Money())
	}
	if s.Status() != StatusVictory {
		t.Errorf("status = %s, want victory", s.Status())
	}
	// spawn+move on tick 1, reach index 31 on tick 31, escape on tick 32
	if len(reports) != 32 {
		t.Errorf("took %d ticks, want 32", len(reports))
	}
	last := reports[len(reports)-1]
	if len(last.Escaped) != 1 || last.WaveCleared != 1 {
		t.Errorf("last report = %+v", last)
	}
}

func TestSpawnedMinionMovesSameTick(t *testing.T) {
	s := newTestSession(t, singleGrunt)
	_ = s.Start()
	r, err := s.Update(1)
	if err != nil {
		t.Fatal(err)
	}
	if r.Spawned == NoEntity {
		t.Fatal("nothing spawned")
	}
	m := s.AliveMinions()[0]
	if m.PathIndex != 1 || m.Pos != (Vec{X: 1, Y: 8}) {
		t.Errorf("minion at index %d pos %v", m.PathIndex, m.Pos)
	}
}

func TestTowersKillAndPayOnce(t *testing.T) {
	s := newTestSession(t, singleGrunt)
	_ = s.SelectTowerType(TowerGunner)
	if _, err := s.PlaceTower(1, 7); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlaceTower(3, 7); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	runUntil(t, s, 100)

	snap := s.Snapshot()
	if snap.Status != StatusVictory {
		t.Errorf("status = %s", snap.Status)
	}
	if snap.Money != 5 || snap.Score != 5 || snap.Kills != 1 {
		t.Errorf("money=%d score=%d kills=%d, want 5/5/1", snap.Money, snap.Score, snap.Kills)
	}
	if snap.Lives != 20 {
		t.Errorf("lives = %d", snap.Lives)
	}
	if snap.Tick != 3 {
		t.Errorf("kill took %d ticks, want 3", snap.Tick)
	}
}

func TestWaveAdvance(t *testing.T) {
	s := newTestSession(t, func(r *Rules) {
		r.Waves = []WaveConfig{
			{Minions: []MinionType{MinionGrunt}},
			{Minions: []MinionType{MinionRunner, MinionRunner}},
		}
	})
	_ = s.Start()

	var cleared TickReport
	for i := 0; i < 100; i++ {
		r, err := s.Update(1)
		if err != nil {
			t.Fatal(err)
		}
		if r.WaveCleared != 0 {
			cleared = r
			break
		}
	}
	if cleared.WaveCleared != 1 || cleared.WaveStarted != 2 {
		t.Fatalf("report = %+v", cleared)
	}
	w := s.Wave()
	if w.Number != 2 || w.TotalCount != 2 || w.SpawnedCount != 0 {
		t.Errorf("wave = %+v", w)
	}
	if s.Status() != StatusPlaying {
		t.Errorf("status = %s", s.Status())
	}
}

func TestEmptyWaveTableWinsOnStart(t *testing.T) {
	s := newTestSession(t, func(r *Rules) { r.Waves = nil })
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusVictory {
		t.Errorf("status = %s, want victory", s.Status())
	}
}

func TestDefeatClampsLives(t *testing.T) {
	s := newTestSession(t, func(r *Rules) {
		r.StartLives = 1
		r.Waves = []WaveConfig{{Minions: []MinionType{MinionRunner, MinionRunner, MinionRunner}}}
	})
	_ = s.Start()
	runUntil(t, s, 200)

	if s.Status() != StatusGameOver {
		t.Errorf("status = %s, want gameOver", s.Status())
	}
	if s.Lives() != 0 {
		t.Errorf("lives = %d, want 0", s.Lives())
	}
}

func TestTerminalStatesRejectCommands(t *testing.T) {
	s := newTestSession(t, func(r *Rules) { r.Waves = nil })
	_ = s.SelectTowerType(TowerGunner)
	tower, _ := s.PlaceTower(0, 0)
	_ = s.Start()

	tests := []struct {
		name string
		run  func() error
	}{
		{"select", func() error { return s.SelectTowerType(TowerFrost) }},
		{"place", func() error { _, err := s.PlaceTower(1, 1); return err }},
		{"upgrade", func() error { _, err := s.UpgradeTower(tower.ID); return err }},
		{"sell", func() error { _, err := s.SellTower(tower.ID); return err }},
		{"start", s.Start},
		{"pause", s.Pause},
		{"resume", s.Resume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, ErrInvalidState) {
				t.Errorf("err = %v, want invalid state", err)
			}
		})
	}

	money := s.Money()
	if _, err := s.Update(1); err != nil {
		t.Fatal(err)
	}
	if s.Money() != money || s.Status() != StatusVictory {
		t.Error("update changed a finished game")
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusIdle || s.Money() != 100 || len(s.Towers()) != 0 {
		t.Errorf("after reset: status=%s money=%d towers=%d", s.Status(), s.Money(), len(s.Towers()))
	}
	if s.Selected() != TowerNone {
		t.Error("reset should clear the selection")
	}
}

func TestNegativeDelta(t *testing.T) {
	s := newTestSession(t, nil)
	_ = s.Start()
	if _, err := s.Update(-0.1); !errors.Is(err, ErrNegativeDelta) {
		t.Errorf("err = %v", err)
	}
}

func TestStepLeavesPreviousStateIntact(t *testing.T) {
	s := newTestSession(t, singleGrunt)
	_ = s.Start()
	prev := s.State()

	sim := NewSimulation(s.Rules())
	next, _, err := sim.Step(prev, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Registry.Minions()) != 1 {
		t.Fatalf("next has %d minions", len(next.Registry.Minions()))
	}
	if len(prev.Registry.Minions()) != 0 || prev.Tick != 0 {
		t.Error("Step mutated its input")
	}
}

func TestDeterministicReplay(t *testing.T) {
	play := func() Snapshot {
		s := newTestSession(t, nil)
		_ = s.SelectTowerType(TowerGunner)
		_, _ = s.PlaceTower(5, 7)
		_ = s.SelectTowerType(TowerFrost)
		_, _ = s.PlaceTower(3, 12)
		_ = s.Start()
		for i := 0; i < 600 && s.Status() == StatusPlaying; i++ {
			if _, err := s.Update(0.1); err != nil {
				t.Fatal(err)
			}
		}
		return s.Snapshot()
	}

	a, b := play(), play()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("replays diverged:\n%+v\n%+v", a, b)
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	s := newTestSession(t, nil)
	g := s.Grid()
	g.Cells[0].Type = CellTower
	if c, _ := s.Grid().At(0, 0); c.Type != CellEmpty {
		t.Error("mutating Grid() leaked into the session")
	}
	p := s.Path()
	p[0] = Waypoint{X: 9, Y: 9}
	if s.Path()[0] == p[0] {
		t.Error("mutating Path() leaked into the session")
	}
}

// checkInvariants verifies the per-tick properties of a session's state.
func checkInvariants(t *testing.T, s *Session, tick int, lastIndex map[EntityID]int) {
	t.Helper()
	if s.Money() < 0 {
		t.Fatalf("tick %d: money = %d", tick, s.Money())
	}

	last := len(s.Path()) - 1
	for _, m := range s.Minions() {
		if m.PathIndex < 0 || m.PathIndex > last {
			t.Fatalf("tick %d: minion %d path index %d outside [0,%d]", tick, m.ID, m.PathIndex, last)
		}
		if prev, ok := lastIndex[m.ID]; ok && m.PathIndex < prev {
			t.Fatalf("tick %d: minion %d path index went back %d -> %d", tick, m.ID, prev, m.PathIndex)
		}
		lastIndex[m.ID] = m.PathIndex
	}

	grid := s.Grid()
	towers := s.Towers()
	byCell := make(map[Coord]EntityID, len(towers))
	for _, tw := range towers {
		if tw.CurrentCooldown < 0 || tw.CurrentCooldown > tw.Cooldown {
			t.Fatalf("tick %d: tower %d cooldown %v outside [0,%v]", tick, tw.ID, tw.CurrentCooldown, tw.Cooldown)
		}
		c, ok := grid.At(tw.Pos.X, tw.Pos.Y)
		if !ok || c.Type != CellTower || c.TowerID != tw.ID {
			t.Fatalf("tick %d: tower %d at %v but cell is %+v", tick, tw.ID, tw.Pos, c)
		}
		byCell[tw.Pos] = tw.ID
	}
	for _, c := range grid.Cells {
		if c.Type != CellTower {
			continue
		}
		if id, ok := byCell[C(c.X, c.Y)]; !ok || id != c.TowerID {
			t.Fatalf("tick %d: tower cell %d,%d has no matching tower", tick, c.X, c.Y)
		}
	}
}

func TestInvariantsHoldOverFullGame(t *testing.T) {
	s := newTestSession(t, func(r *Rules) { r.StartMoney = 2000 })

	spots := []Coord{
		C(2, 7), C(3, 9), C(5, 9), C(5, 12), C(7, 12), C(9, 12), C(9, 10),
		C(11, 10), C(11, 6), C(9, 5), C(11, 3), C(13, 3), C(3, 7), C(8, 14),
	}
	var ids []EntityID
	for i, pos := range spots {
		if err := s.SelectTowerType(TowerTypes[i%len(TowerTypes)]); err != nil {
			t.Fatal(err)
		}
		tw, err := s.PlaceTower(pos.X, pos.Y)
		if err != nil {
			t.Fatalf("place at %v: %v", pos, err)
		}
		ids = append(ids, tw.ID)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	lastIndex := make(map[EntityID]int)
	checkInvariants(t, s, 0, lastIndex)
	for tick := 1; tick <= 20000 && s.Status() == StatusPlaying; tick++ {
		if tick%50 == 0 {
			// running out of money is fine; the check is that it never goes negative
			_, _ = s.UpgradeTower(ids[(tick/50)%len(ids)])
		}
		if _, err := s.Update(0.05); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		checkInvariants(t, s, tick, lastIndex)
	}

	if !s.Status().Terminal() {
		t.Fatalf("game still %s after the tick limit", s.Status())
	}
	if len(s.Towers()) != len(spots) {
		t.Errorf("towers = %d, want %d", len(s.Towers()), len(spots))
	}
}

func TestStatsCountsCells(t *testing.T) {
	s := newTestSession(t, nil)
	before := s.Stats()
	if before.Tower != 0 || before.Path+before.Empty != 16*16 {
		t.Fatalf("stats = %+v", before)
	}

	_ = s.SelectTowerType(TowerGunner)
	if _, err := s.PlaceTower(2, 2); err != nil {
		t.Fatal(err)
	}
	after := s.Stats()
	if after.Tower != 1 || after.Empty != before.Empty-1 || after.Path != before.Path {
		t.Errorf("after placing: %+v, before %+v", after, before)
	}
	if after != s.Snapshot().Stats {
		t.Errorf("Stats() = %+v, snapshot has %+v", after, s.Snapshot().Stats)
	}
}
