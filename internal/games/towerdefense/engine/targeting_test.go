package engine

import "testing"

func testTower(pos Coord, rng float64) Tower {
	return Tower{
		ID:         100,
		Pos:        pos,
		Range:      rng,
		RangeCells: CellsInRange(pos.X, pos.Y, rng, 16, 16),
	}
}

func TestSelectTargetFurthestAlong(t *testing.T) {
	tower := testTower(C(5, 5), 3)
	minions := []Minion{
		{ID: 1, Pos: Vec{X: 5, Y: 6}, PathIndex: 3},
		{ID: 2, Pos: Vec{X: 6, Y: 6}, PathIndex: 7},
		{ID: 3, Pos: Vec{X: 4, Y: 5}, PathIndex: 5},
		{ID: 4, Pos: Vec{X: 12, Y: 12}, PathIndex: 20}, // out of range
	}

	got, ok := SelectTarget(tower, minions)
	if !ok {
		t.Fatal("expected a target")
	}
	if got.ID != 2 {
		t.Errorf("target = %d, want 2", got.ID)
	}
}

func TestSelectTargetTieGoesToLowerID(t *testing.T) {
	tower := testTower(C(5, 5), 3)
	minions := []Minion{
		{ID: 9, Pos: Vec{X: 5, Y: 6}, PathIndex: 4},
		{ID: 3, Pos: Vec{X: 6, Y: 5}, PathIndex: 4},
	}
	got, ok := SelectTarget(tower, minions)
	if !ok || got.ID != 3 {
		t.Errorf("target = %d (%v), want 3", got.ID, ok)
	}
}

func TestSelectTargetSkipsDeadAndCooling(t *testing.T) {
	tower := testTower(C(5, 5), 3)
	minions := []Minion{{ID: 1, Pos: Vec{X: 5, Y: 5}, Dead: true}}
	if _, ok := SelectTarget(tower, minions); ok {
		t.Error("dead minion selected")
	}

	tower.CurrentCooldown = 0.5
	minions[0].Dead = false
	if _, ok := SelectTarget(tower, minions); ok {
		t.Error("cooling tower selected a target")
	}
}

func TestInRangeFallbackAgrees(t *testing.T) {
	withCells := testTower(C(4, 4), 2)
	fallback := withCells
	fallback.RangeCells = nil

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			m := Minion{Pos: Vec{X: float64(x) + 0.4, Y: float64(y) + 0.7}}
			if InRange(withCells, m) != InRange(fallback, m) {
				t.Errorf("range checks disagree at (%d,%d)", x, y)
			}
		}
	}
}

func TestTargetsForArea(t *testing.T) {
	tower := testTower(C(5, 5), 2)
	tower.Area = true
	minions := []Minion{
		{ID: 1, Pos: Vec{X: 5, Y: 6}, PathIndex: 1},
		{ID: 2, Pos: Vec{X: 6, Y: 5}, PathIndex: 2},
		{ID: 3, Pos: Vec{X: 9, Y: 9}, PathIndex: 3},
	}
	got := TargetsFor(tower, minions)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("area targets = %v, want [1 2]", got)
	}

	tower.Area = false
	got = TargetsFor(tower, minions)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("single targets = %v, want [2]", got)
	}
}
