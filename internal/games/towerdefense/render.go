package towerdefense

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
	"github.com/vovakirdan/tui-towerdefense/internal/games/towerdefense/engine"
)

const (
	cellWidth = 3 // runes per grid cell
	panelW    = 26
	hudHeight = 1
)

var towerGlyphs = map[engine.TowerType]rune{
	engine.TowerGunner:       'G',
	engine.TowerFrost:        'F',
	engine.TowerFlamethrower: 'B',
	engine.TowerTesla:        'T',
}

var towerColors = map[engine.TowerType]core.Color{
	engine.TowerGunner:       core.ColorWhite,
	engine.TowerFrost:        core.ColorCyan,
	engine.TowerFlamethrower: core.ColorOrange,
	engine.TowerTesla:        core.ColorMagenta,
}

var minionGlyphs = map[engine.MinionType]rune{
	engine.MinionGrunt:  '●',
	engine.MinionRunner: '►',
	engine.MinionTank:   '■',
	engine.MinionCursed: '◆',
}

// minSize returns the smallest screen that fits the board and the panel.
func minSize(gridW, gridH int) (w, h int) {
	return gridW*cellWidth + 2 + 1 + panelW, hudHeight + gridH + 2 + 1
}

// Render draws the HUD, the board, the side panel and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.session == nil {
		g.renderLoadError(dst)
		return
	}

	grid := g.session.Grid()
	minW, minH := minSize(grid.Width, grid.Height)
	if g.screenW < minW || g.screenH < minH {
		dst.DrawTextCentered(g.screenH/2, "Window too small", core.ColorYellow)
		dst.DrawTextCentered(g.screenH/2+1, fmt.Sprintf("Need %dx%d", minW, minH), core.ColorGray)
		return
	}

	snap := g.session.Snapshot()
	boardW := grid.Width*cellWidth + 2
	boardH := grid.Height + 2
	boardX := max(0, (g.screenW-minW)/2)
	boardY := hudHeight

	g.renderHUD(dst, snap, boardX)
	g.renderBoard(dst, grid, snap, boardX, boardY)
	g.renderPanel(dst, snap, boardX+boardW+1, boardY)

	if g.messageLeft > 0 && g.message != "" {
		c := core.ColorGreen
		if g.messageIsErr {
			c = core.ColorBrightRed
		}
		dst.DrawTextColored(boardX, boardY+boardH, g.message, c)
	}

	g.renderOverlay(dst, snap, core.NewRect(boardX, boardY, boardW, boardH))
}

func (g *Game) renderLoadError(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, g.title, core.ColorWhite)
	msg := "board failed to load"
	if g.loadErr != nil {
		msg = g.loadErr.Error()
	}
	dst.DrawTextCentered(y, msg, core.ColorBrightRed)
	dst.DrawTextCentered(y+2, "Press q to go back", core.ColorGray)
}

func (g *Game) renderHUD(dst *core.Screen, snap engine.Snapshot, x int) {
	wave := fmt.Sprintf("Wave %d/%d", snap.Wave.Number, snap.Wave.Total)
	dst.DrawTextColored(x, 0, wave, core.ColorWhite)
	x += len(wave) + 3

	lives := fmt.Sprintf("♥ %d", snap.Lives)
	livesColor := core.ColorBrightRed
	if snap.Lives <= 5 {
		livesColor = core.ColorRed
	}
	dst.DrawTextColored(x, 0, lives, livesColor)
	x += len([]rune(lives)) + 3

	money := fmt.Sprintf("$ %d", snap.Money)
	dst.DrawTextColored(x, 0, money, core.ColorBrightYellow)
	x += len(money) + 3

	score := fmt.Sprintf("Score %d", snap.Score)
	dst.DrawText(x, 0, score)
	x += len(score) + 3

	dst.DrawTextColored(x, 0, statusLabel(snap.Status), statusColor(snap.Status))
}

func statusLabel(s engine.Status) string {
	switch s {
	case engine.StatusIdle:
		return "BUILD"
	case engine.StatusPlaying:
		return "PLAYING"
	case engine.StatusPaused:
		return "PAUSED"
	case engine.StatusGameOver:
		return "GAME OVER"
	case engine.StatusVictory:
		return "VICTORY"
	}
	return strings.ToUpper(string(s))
}

func statusColor(s engine.Status) core.Color {
	switch s {
	case engine.StatusPlaying:
		return core.ColorBrightGreen
	case engine.StatusPaused:
		return core.ColorYellow
	case engine.StatusGameOver:
		return core.ColorBrightRed
	case engine.StatusVictory:
		return core.ColorBrightCyan
	}
	return core.ColorCyan
}

// minionCell aggregates what stands on one cell.
type minionCell struct {
	lead   engine.Minion
	count  int
	corpse bool
}

func (g *Game) renderBoard(dst *core.Screen, grid *engine.Grid, snap engine.Snapshot, bx, by int) {
	dst.DrawBox(core.NewRect(bx, by, grid.Width*cellWidth+2, grid.Height+2), core.ColorGray)

	towers := make(map[engine.Coord]engine.Tower, len(snap.Towers))
	for _, t := range snap.Towers {
		towers[t.Pos] = t
	}

	minions := make(map[engine.Coord]*minionCell)
	for _, m := range snap.Minions {
		if m.Escaped {
			continue
		}
		c := m.Pos.Floor()
		mc, ok := minions[c]
		if !ok {
			minions[c] = &minionCell{lead: m, count: boolInt(!m.Dead), corpse: m.Dead}
			continue
		}
		if m.Dead {
			continue
		}
		// the living minion furthest along the path leads the cell
		if mc.corpse || m.PathIndex > mc.lead.PathIndex {
			mc.lead = m
		}
		mc.corpse = false
		mc.count++
	}

	inRange := g.rangePreview(grid, towers)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := engine.C(x, y)
			cell, _ := grid.At(x, y)
			px := bx + 1 + x*cellWidth
			py := by + 1 + y

			left, mid, right := ' ', '·', ' '
			midColor, rightColor := core.ColorGray, core.ColorGray

			switch cell.Type {
			case engine.CellPath:
				mid, midColor = '░', core.ColorYellow
				if inRange.Contains(c) {
					midColor = core.ColorBrightYellow
				}
			case engine.CellTower:
				if t, ok := towers[c]; ok {
					mid, midColor = towerGlyphs[t.Type], towerColors[t.Type]
					right, rightColor = rune('0'+min(t.Level, 9)), midColor
				}
			default:
				if inRange.Contains(c) {
					mid, midColor = '∙', core.ColorBlue
				}
			}

			if mc, ok := minions[c]; ok {
				if mc.corpse {
					mid, midColor = '✕', core.ColorGray
				} else {
					mid, midColor = minionGlyph(mc.lead)
					right, rightColor = minionMarker(mc)
				}
			}

			if c == g.cursor {
				cc := core.ColorBrightCyan
				if !engine.IsPlaceable(grid, x, y) && cell.Type != engine.CellTower {
					cc = core.ColorRed
				}
				left, right = '[', ']'
				dst.SetColored(px, py, left, cc)
				dst.SetColored(px+1, py, mid, midColor)
				dst.SetColored(px+2, py, right, cc)
				continue
			}

			dst.SetColored(px, py, left, core.ColorDefault)
			dst.SetColored(px+1, py, mid, midColor)
			dst.SetColored(px+2, py, right, rightColor)
		}
	}
}

// rangePreview returns the cells covered by the tower under the cursor, or
// by the selected tower type if it were built there.
func (g *Game) rangePreview(grid *engine.Grid, towers map[engine.Coord]engine.Tower) engine.RangeSet {
	if t, ok := towers[g.cursor]; ok {
		return t.RangeCells
	}
	sel := g.session.Selected()
	if sel == engine.TowerNone || !engine.IsPlaceable(grid, g.cursor.X, g.cursor.Y) {
		return nil
	}
	st, ok := g.session.Rules().Towers[sel]
	if !ok {
		return nil
	}
	return engine.CellsInRange(g.cursor.X, g.cursor.Y, st.Range, grid.Width, grid.Height)
}

func minionGlyph(m engine.Minion) (rune, core.Color) {
	glyph, ok := minionGlyphs[m.Type]
	if !ok {
		glyph = '?'
	}
	switch f := m.HealthFraction(); {
	case f > 0.66:
		return glyph, core.ColorBrightGreen
	case f > 0.33:
		return glyph, core.ColorYellow
	default:
		return glyph, core.ColorRed
	}
}

// minionMarker shows a head count when minions stack, otherwise the
// strongest effect on the lead minion.
func minionMarker(mc *minionCell) (rune, core.Color) {
	switch {
	case mc.count > 1:
		return rune('0' + min(mc.count, 9)), core.ColorWhite
	case mc.lead.HasEffect(engine.EffectBurn):
		return '~', core.ColorOrange
	case mc.lead.HasEffect(engine.EffectSlow):
		return '*', core.ColorCyan
	}
	return ' ', core.ColorDefault
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (g *Game) renderPanel(dst *core.Screen, snap engine.Snapshot, x, y int) {
	rules := g.session.Rules()

	dst.DrawTextColored(x, y, "TOWERS", core.ColorWhite)
	y++
	for i, tt := range engine.TowerTypes {
		st, ok := rules.Towers[tt]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%d %c %-12s $%d", i+1, towerGlyphs[tt], tt, st.Cost)
		c := towerColors[tt]
		if st.Cost > snap.Money {
			c = core.ColorGray
		}
		if tt == snap.Selected {
			dst.DrawTextColored(x, y, ">", core.ColorBrightYellow)
		}
		dst.DrawTextColored(x+1, y, line, c)
		y++
	}
	y++

	y = g.renderCellInfo(dst, rules, snap, x, y)
	y++

	dst.DrawTextColored(x, y, "WAVE", core.ColorWhite)
	y++
	switch {
	case snap.Wave.Number == 0:
		dst.DrawTextColored(x, y, fmt.Sprintf("%d waves ahead", snap.Wave.Total), core.ColorGray)
	default:
		dst.DrawText(x, y, fmt.Sprintf("%d/%d spawned", snap.Wave.Spawned, snap.Wave.Count))
		y++
		dst.DrawText(x, y, fmt.Sprintf("Kills %d", snap.Kills))
	}
}

func (g *Game) renderCellInfo(dst *core.Screen, rules engine.Rules, snap engine.Snapshot, x, y int) int {
	dst.DrawTextColored(x, y, fmt.Sprintf("CELL %d,%d", g.cursor.X, g.cursor.Y), core.ColorWhite)
	y++

	if t, ok := g.session.TowerAt(g.cursor.X, g.cursor.Y); ok {
		dst.DrawTextColored(x, y, fmt.Sprintf("%s L%d", t.Type, t.Level), towerColors[t.Type])
		y++
		dst.DrawText(x, y, fmt.Sprintf("dmg %.1f rng %.1f cd %.2f", t.Damage, t.Range, t.Cooldown))
		y++
		if t.Ability != engine.TowerAbilityNone {
			dst.DrawTextColored(x, y, t.Ability.String(), core.ColorGray)
			y++
		}
		up := rules.UpgradeCost(t)
		upColor := core.ColorDefault
		if up > snap.Money {
			upColor = core.ColorGray
		}
		dst.DrawTextColored(x, y, fmt.Sprintf("u upgrade $%d", up), upColor)
		y++
		dst.DrawText(x, y, fmt.Sprintf("x sell    $%d", rules.SellValue(t)))
		return y + 1
	}

	cell, _ := g.session.Grid().At(g.cursor.X, g.cursor.Y)
	switch cell.Type {
	case engine.CellPath:
		dst.DrawTextColored(x, y, "Path", core.ColorYellow)
	default:
		if sel := snap.Selected; sel != engine.TowerNone {
			dst.DrawText(x, y, fmt.Sprintf("space: build %s", sel))
		} else {
			dst.DrawTextColored(x, y, "Empty", core.ColorGray)
		}
	}
	return y + 1
}

func (g *Game) renderOverlay(dst *core.Screen, snap engine.Snapshot, board core.Rect) {
	var lines []string
	c := core.ColorWhite
	switch snap.Status {
	case engine.StatusIdle:
		if snap.Tick > 0 || len(snap.Towers) > 0 {
			return
		}
		lines = []string{"Build your defense", "1-4 select  space build  n start"}
		c = core.ColorBrightCyan
	case engine.StatusPaused:
		lines = []string{"PAUSED", "p to resume"}
		c = core.ColorYellow
	case engine.StatusGameOver:
		lines = []string{"GAME OVER", fmt.Sprintf("Reached wave %d  Score %d", snap.Wave.Number, snap.Score), "r to restart  q to quit"}
		c = core.ColorBrightRed
	case engine.StatusVictory:
		lines = []string{"VICTORY", fmt.Sprintf("%d lives left  Score %d", snap.Lives, snap.Score), "r to play again  q to quit"}
		c = core.ColorBrightGreen
	default:
		return
	}

	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	box := core.NewRect(board.X+(board.W-w-4)/2, board.Y+(board.H-len(lines)-2)/2, w+4, len(lines)+2)
	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)
	for i, l := range lines {
		lx := box.X + (box.W-len([]rune(l)))/2
		dst.DrawTextColored(lx, box.Y+1+i, l, c)
	}
}
