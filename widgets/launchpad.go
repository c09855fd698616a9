package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-padlight/animation"
	"go-padlight/theme"
)

// Rows rendered for a grid: the control strip plus the matrix
const Rows = animation.ControlRow + 1

// Cells is a frame of visual tokens indexed [y][x]. Empty and "off" are dark
type Cells [Rows][animation.GridSize]string

func lit(token string) bool {
	return token != "" && token != "off"
}

// RenderPad renders a single pad: its hex token when lit, the muted color when dark
func RenderPad(token string, th *theme.Theme, cursor bool) string {
	if !lit(token) {
		sym := th.Symbols.Off
		if cursor {
			sym = th.Symbols.Hover
		}
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(sym))
	}
	sym := th.Symbols.Pad
	if cursor {
		sym = th.Symbols.Cursor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(token)).Render(string(sym))
}

// RenderPadRow renders a row of pads with spacing
func RenderPadRow(tokens []string, th *theme.Theme, cursorX int) string {
	var out strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(tok, th, i == cursorX))
	}
	return out.String()
}

// RenderPadGrid renders the control strip on top, a gap, then rows 0-7 top down.
// Every pad is two columns wide
func RenderPadGrid(cells *Cells, th *theme.Theme, cursor animation.Position) string {
	row := func(y int) string {
		cx := -1
		if cursor.Y == y {
			cx = cursor.X
		}
		return RenderPadRow(cells[y][:], th, cx)
	}

	lines := []string{row(animation.ControlRow), ""}
	for y := 0; y < animation.GridSize; y++ {
		lines = append(lines, row(y))
	}
	return strings.Join(lines, "\n")
}

// GridHit maps a cell inside a rendered grid (relative to its top left) to a position
func GridHit(x, y int) (animation.Position, bool) {
	if x < 0 || x%2 != 0 || x/2 >= animation.GridSize {
		return animation.Position{}, false
	}
	col := x / 2
	switch {
	case y == 0:
		return animation.Position{X: col, Y: animation.ControlRow}, true
	case y >= 2 && y < 2+animation.GridSize:
		return animation.Position{X: col, Y: y - 2}, true
	}
	return animation.Position{}, false
}

// GridHeight is the number of lines RenderPadGrid produces
const GridHeight = animation.GridSize + 2

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
