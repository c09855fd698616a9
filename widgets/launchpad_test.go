package widgets

import (
	"strings"
	"testing"

	"go-padlight/animation"
	"go-padlight/theme"
)

func TestRenderPadGridShape(t *testing.T) {
	th := theme.New(nil)
	var cells Cells
	cells[0][0] = "#ff0000"
	cells[animation.ControlRow][7] = "#00ff00"
	cells[3][3] = "off"

	out := RenderPadGrid(&cells, th, animation.Position{X: 5, Y: 5})
	lines := strings.Split(out, "\n")
	if len(lines) != GridHeight {
		t.Fatalf("lines = %d, want %d", len(lines), GridHeight)
	}
	if lines[1] != "" {
		t.Errorf("no gap under the control strip: %q", lines[1])
	}
	if !strings.Contains(lines[0], "■") {
		t.Error("control strip pad not lit")
	}
	if strings.Count(lines[2], "■") != 1 {
		t.Errorf("row 0 = %q, want one lit pad", lines[2])
	}
	if !strings.Contains(lines[7], "○") {
		t.Errorf("cursor missing from row 5: %q", lines[7])
	}
}

func TestGridHit(t *testing.T) {
	tests := []struct {
		x, y int
		want animation.Position
		ok   bool
	}{
		{0, 0, animation.Position{X: 0, Y: animation.ControlRow}, true},
		{14, 0, animation.Position{X: 7, Y: animation.ControlRow}, true},
		{0, 1, animation.Position{}, false},
		{4, 2, animation.Position{X: 2, Y: 0}, true},
		{14, 9, animation.Position{X: 7, Y: 7}, true},
		{3, 4, animation.Position{}, false}, // gap between pads
		{16, 4, animation.Position{}, false},
		{0, 10, animation.Position{}, false},
	}
	for _, tt := range tests {
		got, ok := GridHit(tt.x, tt.y)
		if ok != tt.ok || got != tt.want {
			t.Errorf("GridHit(%d, %d) = %v, %v; want %v, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{
		Title: "Patterns",
		Keys:  []KeyBinding{{Key: "1", Desc: "flash"}},
	}})
	if !strings.Contains(out, "Patterns") || !strings.Contains(out, "flash") {
		t.Errorf("help = %q", out)
	}
}
