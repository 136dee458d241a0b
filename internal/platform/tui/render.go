package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-towerdefense/internal/core"
)

// palette is the terminal color of each core.Color. Empty means the
// terminal's own foreground.
var palette = [...]string{
	core.ColorDefault:      "",
	core.ColorRed:          "1",
	core.ColorGreen:        "2",
	core.ColorYellow:       "3",
	core.ColorBlue:         "4",
	core.ColorMagenta:      "5",
	core.ColorCyan:         "6",
	core.ColorWhite:        "7",
	core.ColorBrightRed:    "9",
	core.ColorBrightGreen:  "10",
	core.ColorBrightYellow: "11",
	core.ColorBrightCyan:   "14",
	core.ColorOrange:       "208",
	core.ColorGray:         "245",
}

var colorStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for c, code := range palette {
		styles[c] = lipgloss.NewStyle()
		if code != "" {
			styles[c] = styles[c].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(colorStyles) {
		return colorStyles[c]
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a screen buffer to styled text, one line per row.
// Runs of same-colored cells share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		renderRow(&sb, s, y)
	}
	return sb.String()
}

func renderRow(sb *strings.Builder, s *core.Screen, y int) {
	var span strings.Builder
	color := s.GetCell(0, y).Color

	flush := func() {
		if span.Len() > 0 {
			sb.WriteString(styleFor(color).Render(span.String()))
			span.Reset()
		}
	}

	for x := range s.Width() {
		cell := s.GetCell(x, y)
		if cell.Color != color {
			flush()
			color = cell.Color
		}
		span.WriteRune(cell.Rune)
	}
	flush()
}
