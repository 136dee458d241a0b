package engine

import (
	"fmt"
	"math"
)

// Waypoint is one step of the minion path.
type Waypoint struct {
	X int
	Y int
}

// ID returns the identifier of the underlying cell.
func (w Waypoint) ID() string {
	return fmt.Sprintf("cell-%d-%d", w.X, w.Y)
}

// Coord returns the waypoint as a grid coordinate.
func (w Waypoint) Coord() Coord {
	return Coord{X: w.X, Y: w.Y}
}

// Vec returns the waypoint as a continuous position.
func (w Waypoint) Vec() Vec {
	return Vec{X: float64(w.X), Y: float64(w.Y)}
}

// Path is the ordered route from entry (first) to exit (last).
type Path []Waypoint

// Usable reports whether minions can walk the path. Paths of zero or one
// waypoint are treated as no path at all.
func (p Path) Usable() bool {
	return len(p) >= 2
}

// Entry returns the first waypoint. Only valid on a non-empty path.
func (p Path) Entry() Waypoint {
	return p[0]
}

// Exit returns the last waypoint. Only valid on a non-empty path.
func (p Path) Exit() Waypoint {
	return p[len(p)-1]
}

// Contains reports whether c is on the path.
func (p Path) Contains(c Coord) bool {
	for _, w := range p {
		if w.X == c.X && w.Y == c.Y {
			return true
		}
	}
	return false
}

// walk order: right, down, left, up
var pathDirs = [4]Coord{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// ExtractPath derives the minion route from the grid's Path cells. The walk
// starts at the leftmost path cell (lowest x, then lowest y) and greedily
// steps to the first neighbouring Path cell in right, down, left, up order
// that is not already part of the route. It ends when no such neighbour
// exists. On a simple polyline this is the same as only refusing to step
// back onto the previous cell; excluding the whole route additionally keeps
// a looping layout from walking forever. A branching or looping layout
// yields a truncated route; see ValidatePath.
func ExtractPath(g *Grid) Path {
	start, ok := leftmostPathCell(g)
	if !ok {
		return nil
	}

	var path Path
	visited := make(map[Coord]bool)
	cur := start
	for {
		path = append(path, Waypoint{X: cur.X, Y: cur.Y})
		visited[cur] = true

		next, found := Coord{}, false
		for _, d := range pathDirs {
			n := Coord{X: cur.X + d.X, Y: cur.Y + d.Y}
			if visited[n] {
				continue
			}
			if c, ok := g.At(n.X, n.Y); ok && c.Type == CellPath {
				next, found = n, true
				break
			}
		}
		if !found {
			return path
		}
		cur = next
	}
}

func leftmostPathCell(g *Grid) (Coord, bool) {
	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			if g.Cells[y*g.Width+x].Type == CellPath {
				return Coord{X: x, Y: y}, true
			}
		}
	}
	return Coord{}, false
}

// ValidatePath checks an authored grid before play: the extracted path must
// be usable and must cover every Path cell, which rules out branches, loops
// and disconnected fragments.
func ValidatePath(g *Grid, p Path) error {
	if !p.Usable() {
		return ValidationError{
			Code:    "NO_PATH",
			Message: fmt.Sprintf("path has %d waypoint(s), need at least 2", len(p)),
		}
	}
	for _, c := range g.Cells {
		if c.Type != CellPath {
			continue
		}
		if !p.Contains(Coord{X: c.X, Y: c.Y}) {
			return ValidationError{
				Code:    "PATH_NOT_SIMPLE",
				Message: fmt.Sprintf("path cell (%d,%d) is not reachable by a single walk", c.X, c.Y),
			}
		}
	}
	return nil
}

// RangeSet is a set of grid coordinates.
type RangeSet map[Coord]struct{}

// Contains reports whether c is in the set.
func (r RangeSet) Contains(c Coord) bool {
	_, ok := r[c]
	return ok
}

// CellsInRange returns the in-bounds cells within Manhattan distance rng of
// the origin. rng may be fractional after upgrades.
func CellsInRange(originX, originY int, rng float64, width, height int) RangeSet {
	out := make(RangeSet)
	if rng < 0 {
		return out
	}
	reach := int(math.Floor(rng))
	for dy := -reach; dy <= reach; dy++ {
		for dx := -reach; dx <= reach; dx++ {
			if float64(abs(dx)+abs(dy)) > rng {
				continue
			}
			x, y := originX+dx, originY+dy
			if x < 0 || x >= width || y < 0 || y >= height {
				continue
			}
			out[Coord{X: x, Y: y}] = struct{}{}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
