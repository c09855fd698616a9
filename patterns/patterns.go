// Package patterns is the built-in pattern catalog. Each factory turns a trigger
// into fades, scheduled tasks, an event sequence or a stateful animation.
package patterns

import (
	"math/rand/v2"
	"time"

	"go-padlight/animation"
)

// Order lists the catalog in keyboard order: key 1 triggers Order[0]
var Order = []string{
	"flash",
	"ripple",
	"rain",
	"sweep",
	"cross",
	"sparkle",
	"traffic",
	"strobe",
	"delayed",
}

// Catalog returns the built-in patterns keyed by id
func Catalog() animation.Catalog {
	return animation.Catalog{
		"flash":   Flash,
		"ripple":  Ripple,
		"rain":    Rain,
		"sweep":   Sweep,
		"cross":   Cross,
		"sparkle": Sparkle,
		"traffic": Traffic,
		"strobe":  Strobe,
		"delayed": Delayed,
	}
}

// Flash fades the pressed cell over the trigger duration
func Flash(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	e.Fades.Add(req.Pos, req.Color, req.Duration, animation.ModeStandard)
	return nil
}

// Rain drops every column to the bottom at its own random delay and speed
func Rain(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	return animation.NewColumnDrop(e.Fades, e.Now(), req.Duration, req.Color, e.Rand())
}

// Strobe flashes the whole grid four times
func Strobe(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	return animation.NewStrobe(e.Fades, e.Now(), req.Duration, req.Color)
}

// Ripple lights square rings spreading out from the pressed cell
func Ripple(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	return sequence(e, animation.EventList(ripple(req.Pos, req.Duration)...), req.Color, 0)
}

// ripple builds the rings around origin. Ring r starts at r/8 of d, so the
// farthest ring a corner press reaches starts at 7/8 of d
func ripple(origin animation.Position, d time.Duration) []animation.Event {
	step := d / animation.GridSize
	events := make([]animation.Event, 0, animation.GridCells)
	for y := 0; y < animation.GridSize; y++ {
		for x := 0; x < animation.GridSize; x++ {
			r := max(abs(x-origin.X), abs(y-origin.Y))
			events = append(events, animation.Event{
				Pos:      animation.Position{X: x, Y: y},
				Time:     time.Duration(r) * step,
				Duration: 3 * step,
				Mode:     animation.ModeStandard,
			})
		}
	}
	return events
}

// Cross lights the pressed row and column, spreading out from the cell
func Cross(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	return sequence(e, animation.EventList(cross(req.Pos, req.Duration)...), req.Color, 0)
}

func cross(origin animation.Position, d time.Duration) []animation.Event {
	step := d / animation.GridSize
	events := make([]animation.Event, 0, 2*animation.GridSize-1)
	for y := 0; y < animation.GridSize; y++ {
		for x := 0; x < animation.GridSize; x++ {
			if x != origin.X && y != origin.Y {
				continue
			}
			r := abs(x-origin.X) + abs(y-origin.Y)
			events = append(events, animation.Event{
				Pos:      animation.Position{X: x, Y: y},
				Time:     time.Duration(r) * step,
				Duration: 2 * step,
				Mode:     animation.ModeShort,
			})
		}
	}
	return events
}

// Sweep lights the grid one row at a time from the top
func Sweep(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	return sequence(e, animation.EventGenerator(sweep), req.Color, req.Duration)
}

func sweep(d time.Duration, _ *rand.Rand) []animation.Event {
	step := d / animation.GridSize
	events := make([]animation.Event, 0, animation.GridCells)
	for y := 0; y < animation.GridSize; y++ {
		for x := 0; x < animation.GridSize; x++ {
			events = append(events, animation.Event{
				Pos:      animation.Position{X: x, Y: y},
				Time:     time.Duration(y) * step,
				Duration: 2 * step,
				Mode:     animation.ModeShort,
			})
		}
	}
	return events
}

const sparkles = 24

// Sparkle blinks random cells during the first half of the duration
func Sparkle(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	return sequence(e, animation.EventGenerator(sparkle), req.Color, req.Duration)
}

func sparkle(d time.Duration, rng *rand.Rand) []animation.Event {
	window := int64(d / 2)
	if window <= 0 {
		window = 1
	}
	events := make([]animation.Event, sparkles)
	for i := range events {
		events[i] = animation.Event{
			Pos:      animation.Position{X: rng.IntN(animation.GridSize), Y: rng.IntN(animation.GridSize)},
			Time:     time.Duration(rng.Int64N(window)),
			Duration: d / 4,
			Mode:     animation.ModeInstant,
		}
	}
	return events
}

// Traffic steps the pressed cell through red, amber and green
func Traffic(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	e.Fades.Add(req.Pos, "red", req.Duration, animation.ModeMulti, "red", "amber", "green")
	return nil
}

// Delayed flashes the pressed cell now and again halfway through the duration
func Delayed(e *animation.Engine, req animation.Request) animation.StatefulAnimation {
	half := req.Duration / 2
	e.Fades.Add(req.Pos, req.Color, half, animation.ModeShort)
	e.Scheduler.Schedule(func() {
		e.Fades.Add(req.Pos, req.Color, half, animation.ModeShort)
	}, half)
	return nil
}

// sequence builds an unstarted player; the engine starts what a factory returns
func sequence(e *animation.Engine, src animation.EventSource, color string, d time.Duration) animation.StatefulAnimation {
	return animation.NewSequence(e.Fades, src, e.Now(), animation.SequenceOptions{
		Color:    color,
		Duration: d,
		Rand:     e.Rand(),
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
