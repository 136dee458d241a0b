package engine

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-towerdefense/internal/config"
)

func TestDefaultPathShape(t *testing.T) {
	g := ApplyDefaultPath(NewGrid(16, 16))
	p := ExtractPath(g)

	if len(p) != 32 {
		t.Fatalf("path length = %d, want 32", len(p))
	}

	tests := []struct {
		index int
		want  Coord
	}{
		{0, C(0, 8)},
		{4, C(4, 8)},
		{5, C(4, 9)},
		{9, C(4, 13)},
		{10, C(5, 13)},
		{15, C(10, 13)},
		{16, C(10, 12)},
		{26, C(10, 2)},
		{31, C(15, 2)},
	}
	for _, tt := range tests {
		if got := p[tt.index].Coord(); got != tt.want {
			t.Errorf("path[%d] = %v, want %v", tt.index, got, tt.want)
		}
	}

	if err := ValidatePath(g, p); err != nil {
		t.Errorf("default path should validate: %v", err)
	}
}

func TestDefaultPathDeterministic(t *testing.T) {
	a := ExtractPath(ApplyDefaultPath(NewGrid(16, 16)))
	b := ExtractPath(ApplyDefaultPath(NewGrid(16, 16)))
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("waypoint %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDefaultPathLeavesInputUntouched(t *testing.T) {
	g := NewGrid(16, 16)
	_ = ApplyDefaultPath(g)
	if s := ComputeGridStats(g); s.Path != 0 {
		t.Errorf("input grid gained %d path cells", s.Path)
	}
}

func TestSmallGridStraightPath(t *testing.T) {
	g := ApplyDefaultPath(NewGrid(5, 4))
	p := ExtractPath(g)
	if len(p) != 5 {
		t.Fatalf("path length = %d, want 5", len(p))
	}
	if p.Entry().Coord() != C(0, 2) || p.Exit().Coord() != C(4, 2) {
		t.Errorf("path runs %v -> %v, want (0,2) -> (4,2)", p.Entry().Coord(), p.Exit().Coord())
	}
}

func TestEmptyGridHasNoPath(t *testing.T) {
	p := ExtractPath(NewGrid(8, 8))
	if p.Usable() {
		t.Errorf("empty grid produced path of %d waypoints", len(p))
	}
	if err := ValidatePath(NewGrid(8, 8), p); validationCode(err) != "NO_PATH" {
		t.Errorf("ValidatePath = %v, want NO_PATH", err)
	}
}

func TestBundledMapsValidate(t *testing.T) {
	for _, id := range config.MapIDs() {
		t.Run(id, func(t *testing.T) {
			m, err := config.LoadMap(id)
			if err != nil {
				t.Fatalf("LoadMap: %v", err)
			}
			g, err := GridFromLayout(m.Layout)
			if err != nil {
				t.Fatalf("GridFromLayout: %v", err)
			}
			p := ExtractPath(g)
			if err := ValidatePath(g, p); err != nil {
				t.Fatalf("ValidatePath: %v", err)
			}
			if got := ComputeGridStats(g).Path; got != len(p) {
				t.Errorf("path covers %d of %d path cells", len(p), got)
			}
		})
	}
}

func TestMazeEndpoints(t *testing.T) {
	m, err := config.LoadMap("maze")
	if err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	g, err := GridFromLayout(m.Layout)
	if err != nil {
		t.Fatal(err)
	}
	p := ExtractPath(g)
	if len(p) != 44 {
		t.Errorf("maze path length = %d, want 44", len(p))
	}
	if p.Entry().Coord() != C(0, 1) {
		t.Errorf("entry = %v, want (0,1)", p.Entry().Coord())
	}
	if p.Exit().Coord() != C(15, 1) {
		t.Errorf("exit = %v, want (15,1)", p.Exit().Coord())
	}
}

func TestLayoutValidation(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		code   string
	}{
		{"no rows", nil, "EMPTY_LAYOUT"},
		{"blank rows", []string{"", ""}, "EMPTY_LAYOUT"},
		{"bad char", []string{"..#", ".x#"}, "BAD_LAYOUT_CHAR"},
		{"branch", []string{
			"#####",
			"..#..",
			"..#..",
		}, "PATH_NOT_SIMPLE"},
		{"disconnected", []string{
			"##...",
			".....",
			"...##",
		}, "PATH_NOT_SIMPLE"},
		{"single cell", []string{"..#.."}, "NO_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := GridFromLayout(tt.layout)
			if err == nil {
				err = ValidatePath(g, ExtractPath(g))
			}
			if got := validationCode(err); got != tt.code {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	rows := []string{
		"......",
		"######",
		"......",
	}
	g, err := GridFromLayout(rows)
	if err != nil {
		t.Fatal(err)
	}
	g.setType(2, 0, CellTower, 7)
	got := g.Layout()
	want := []string{"..T...", "######", "......"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsPlaceable(t *testing.T) {
	g := ApplyDefaultPath(NewGrid(16, 16))
	g.setType(1, 1, CellTower, 1)

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{0, 8, false},  // path
		{1, 1, false},  // tower
		{-1, 0, false}, // out of bounds
		{16, 3, false},
	}
	for _, tt := range tests {
		if got := IsPlaceable(g, tt.x, tt.y); got != tt.want {
			t.Errorf("IsPlaceable(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCellsInRange(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int
		rng   float64
		count int
	}{
		{"centre r1", 5, 5, 1, 5},
		{"centre r2", 5, 5, 2, 13},
		{"centre r3", 8, 8, 3, 25},
		{"fractional", 5, 5, 2.4, 13},
		{"corner r2", 0, 0, 2, 6},
		{"zero", 3, 3, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := CellsInRange(tt.x, tt.y, tt.rng, 16, 16)
			if len(set) != tt.count {
				t.Errorf("got %d cells, want %d", len(set), tt.count)
			}
			for c := range set {
				if float64(c.Manhattan(C(tt.x, tt.y))) > tt.rng {
					t.Errorf("%v is outside range %.1f", c, tt.rng)
				}
			}
		})
	}
}

func TestCellID(t *testing.T) {
	c, _ := NewGrid(4, 4).At(2, 3)
	if c.ID() != "cell-2-3" {
		t.Errorf("ID = %q", c.ID())
	}
}

// validationCode returns the code of a ValidationError in err's chain.
func validationCode(err error) string {
	var ve ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

func TestExtractPathStopsOnLoop(t *testing.T) {
	// a closed ring of path cells around a 3x1 hole
	g := NewGrid(5, 3)
	for x := 0; x < 5; x++ {
		g.setType(x, 0, CellPath, NoEntity)
		g.setType(x, 2, CellPath, NoEntity)
	}
	g.setType(0, 1, CellPath, NoEntity)
	g.setType(4, 1, CellPath, NoEntity)

	p := ExtractPath(g)
	if len(p) != 12 {
		t.Fatalf("len = %d, want every ring cell once (12)", len(p))
	}
	seen := make(map[Coord]bool)
	for _, w := range p {
		if seen[w.Coord()] {
			t.Fatalf("cell %v visited twice", w.Coord())
		}
		seen[w.Coord()] = true
	}
	if last := p.Exit().Coord(); last != C(0, 1) {
		t.Errorf("walk ended at %v, want (0,1)", last)
	}
}
