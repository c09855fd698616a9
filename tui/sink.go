package tui

import (
	"go-padlight/animation"
	"go-padlight/widgets"
)

// Frame is one flushed picture of the grid plus the engine load at that moment
type Frame struct {
	Cells widgets.Cells
	Stats animation.Stats
}

// GridSink is the visual sink for the terminal. The engine goroutine writes into
// it and each flush that changed something publishes a Frame. Only the newest
// unread frame is kept.
type GridSink struct {
	cells  widgets.Cells
	dirty  bool
	stats  func() animation.Stats
	last   animation.Stats
	frames chan Frame
}

// NewGridSink creates an empty sink
func NewGridSink() *GridSink {
	return &GridSink{frames: make(chan Frame, 1)}
}

// SetStats installs a load reporter, called on the engine goroutine at flush time
func (g *GridSink) SetStats(fn func() animation.Stats) {
	g.stats = fn
}

// Frames delivers published frames
func (g *GridSink) Frames() <-chan Frame {
	return g.frames
}

func (g *GridSink) SetVisualColor(token string, pos animation.Position) {
	if !pos.Valid() {
		return
	}
	g.cells[pos.Y][pos.X] = token
	g.dirty = true
}

func (g *GridSink) FlushVisual() {
	var st animation.Stats
	if g.stats != nil {
		st = g.stats()
	}
	if !g.dirty && sameLoad(st, g.last) {
		return
	}
	g.dirty = false
	g.last = st

	f := Frame{Cells: g.cells, Stats: st}
	select {
	case g.frames <- f:
		return
	default:
	}
	// replace the stale frame nobody has read yet
	select {
	case <-g.frames:
	default:
	}
	select {
	case g.frames <- f:
	default:
	}
}

func sameLoad(a, b animation.Stats) bool {
	return a.Fades == b.Fades && a.Tasks == b.Tasks && a.Animations == b.Animations
}
