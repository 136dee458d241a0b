package engine

import (
	"fmt"
	"strings"
)

// CellType classifies a grid cell.
type CellType int

const (
	CellEmpty CellType = iota
	CellPath
	CellTower
)

func (c CellType) String() string {
	switch c {
	case CellPath:
		return "Path"
	case CellTower:
		return "Tower"
	default:
		return "Empty"
	}
}

// Cell is one tile of the grid. Identity is its coordinate.
type Cell struct {
	X       int
	Y       int
	Type    CellType
	TowerID EntityID // set only when Type == CellTower
}

// ID returns the stable cell identifier "cell-{x}-{y}".
func (c Cell) ID() string {
	return fmt.Sprintf("cell-%d-%d", c.X, c.Y)
}

// Grid is a row-major tile grid.
type Grid struct {
	Width  int
	Height int
	Cells  []Cell
}

// NewGrid creates a grid with every cell Empty.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Cells[y*width+x] = Cell{X: x, Y: y}
		}
	}
	return g
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at (x, y). ok is false out of bounds.
func (g *Grid) At(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return g.Cells[y*g.Width+x], true
}

func (g *Grid) setType(x, y int, t CellType, tower EntityID) {
	if !g.InBounds(x, y) {
		return
	}
	c := &g.Cells[y*g.Width+x]
	c.Type = t
	c.TowerID = tower
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := &Grid{
		Width:  g.Width,
		Height: g.Height,
		Cells:  make([]Cell, len(g.Cells)),
	}
	copy(clone.Cells, g.Cells)
	return clone
}

// IsPlaceable reports whether a tower may be built at (x, y).
func IsPlaceable(g *Grid, x, y int) bool {
	c, ok := g.At(x, y)
	return ok && c.Type == CellEmpty
}

// ApplyDefaultPath returns a copy of g with the fixed serpentine path
// carved in: enter on the left at mid height, drop toward the bottom, run
// right, climb to row 2 and leave on the right edge. Grids smaller than
// 6x6 get a straight row at mid height instead.
func ApplyDefaultPath(g *Grid) *Grid {
	out := g.Clone()
	w, h := out.Width, out.Height
	if w == 0 || h == 0 {
		return out
	}

	carve := func(x, y int) { out.setType(x, y, CellPath, NoEntity) }

	mid := h / 2
	if w < 6 || h < 6 {
		for x := 0; x < w; x++ {
			carve(x, mid)
		}
		return out
	}

	x1 := w/3 - 1
	x2 := 2 * w / 3
	bottom := h - 3
	top := 2

	for x := 0; x <= x1; x++ {
		carve(x, mid)
	}
	for y := mid; y <= bottom; y++ {
		carve(x1, y)
	}
	for x := x1; x <= x2; x++ {
		carve(x, bottom)
	}
	for y := bottom; y >= top; y-- {
		carve(x2, y)
	}
	for x := x2; x < w; x++ {
		carve(x, top)
	}
	return out
}

// GridFromLayout builds a grid from text rows where '#' marks a path cell
// and '.' or ' ' an empty one. Short rows are padded with empty cells.
func GridFromLayout(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ValidationError{Code: "EMPTY_LAYOUT", Message: "layout has no rows"}
	}
	width := 0
	for _, row := range rows {
		if n := len([]rune(row)); n > width {
			width = n
		}
	}
	if width == 0 {
		return nil, ValidationError{Code: "EMPTY_LAYOUT", Message: "layout has no columns"}
	}

	g := NewGrid(width, len(rows))
	for y, row := range rows {
		for x, r := range []rune(row) {
			switch r {
			case '#':
				g.setType(x, y, CellPath, NoEntity)
			case '.', ' ':
			default:
				return nil, ValidationError{
					Code:    "BAD_LAYOUT_CHAR",
					Message: fmt.Sprintf("unexpected %q at (%d,%d)", r, x, y),
				}
			}
		}
	}
	return g, nil
}

// Layout renders the grid back into layout rows ('#' path, 'T' tower, '.').
func (g *Grid) Layout() []string {
	rows := make([]string, g.Height)
	for y := 0; y < g.Height; y++ {
		var sb strings.Builder
		for x := 0; x < g.Width; x++ {
			switch g.Cells[y*g.Width+x].Type {
			case CellPath:
				sb.WriteByte('#')
			case CellTower:
				sb.WriteByte('T')
			default:
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// GridStats counts cells by type.
type GridStats struct {
	Path  int
	Tower int
	Empty int
}

// ComputeGridStats counts the cells of each type.
func ComputeGridStats(g *Grid) GridStats {
	var s GridStats
	for _, c := range g.Cells {
		switch c.Type {
		case CellPath:
			s.Path++
		case CellTower:
			s.Tower++
		default:
			s.Empty++
		}
	}
	return s
}
