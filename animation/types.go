// Package animation drives the pad matrix: a delayed task scheduler, a per-cell
// fade engine, event sequence players and self-contained stateful animations,
// all advanced from a single tick and flushed to the sinks once per frame.
//
// Nothing in this package is safe for concurrent use. Other goroutines hand work
// to the engine with Engine.Post.
package animation

import (
	"fmt"
	"time"

	"go-padlight/palette"
)

// GridSize is the width and height of the pad matrix
const GridSize = 8

// GridCells is the number of pads in the matrix
const GridCells = GridSize * GridSize

// ControlRow is the first row of the control strip above the grid
const ControlRow = GridSize

// Position addresses a cell. Rows at ControlRow and above belong to the control strip
type Position struct {
	X, Y int
}

// InGrid reports whether p is one of the 64 matrix cells
func (p Position) InGrid() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Valid reports whether p is a matrix cell or a control strip cell
func (p Position) Valid() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y <= ControlRow
}

// Add offsets p by o
func (p Position) Add(o Position) Position {
	return Position{p.X + o.X, p.Y + o.Y}
}

// index is the dense slot for a grid cell
func (p Position) index() int {
	return p.Y*GridSize + p.X
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Mode is the tier-stepping profile of a fade
type Mode int

const (
	ModeStandard Mode = iota // full, medium, low in thirds
	ModeShort                // full, then medium for the second half
	ModeInstant              // full for the whole duration
	ModeMulti                // three colors in thirds
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeShort:
		return "short"
	case ModeInstant:
		return "instant"
	case ModeMulti:
		return "multi"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// FadeDefaults holds the duration used when Add is given none
type FadeDefaults struct {
	Standard time.Duration
	Short    time.Duration
	Instant  time.Duration
	Multi    time.Duration
}

// DefaultFades are the built-in per-mode durations
var DefaultFades = FadeDefaults{
	Standard: 300 * time.Millisecond,
	Short:    150 * time.Millisecond,
	Instant:  100 * time.Millisecond,
	Multi:    600 * time.Millisecond,
}

func (d FadeDefaults) forMode(m Mode) time.Duration {
	switch m {
	case ModeShort:
		return d.Short
	case ModeInstant:
		return d.Instant
	case ModeMulti:
		return d.Multi
	}
	return d.Standard
}

// Colors resolves color names to tiers
type Colors interface {
	Lookup(name string) (*palette.Color, bool)
}

// VisualSink receives on-screen color writes
type VisualSink interface {
	SetVisualColor(token string, pos Position)
	FlushVisual()
}

// DeviceSink receives buffered device color writes
type DeviceSink interface {
	SetDeviceColor(code uint8, pos Position)
	FlushDeviceColors()
}

// StatefulAnimation is a self-contained per-tick state machine
type StatefulAnimation interface {
	// Tick advances the animation to now and reports whether it has finished
	Tick(now time.Duration) bool
}

type discardSink struct{}

func (discardSink) SetVisualColor(string, Position) {}
func (discardSink) FlushVisual()                    {}
func (discardSink) SetDeviceColor(uint8, Position)  {}
func (discardSink) FlushDeviceColors()              {}
