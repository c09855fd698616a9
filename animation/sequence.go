package animation

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"time"
)

// Event is one scheduled cell fade within a sequence
type Event struct {
	Pos      Position
	Time     time.Duration // offset from the sequence start
	Duration time.Duration // zero = mode default
	Mode     Mode
	Color    string // empty = the sequence color
}

// Generator builds an event list for a requested total duration
type Generator func(duration time.Duration, rng *rand.Rand) []Event

// EventSource is either a literal event list or a generator
type EventSource struct {
	events []Event
	gen    Generator
}

// EventList wraps a fixed event list
func EventList(events ...Event) EventSource {
	return EventSource{events: events}
}

// EventGenerator wraps a generator called once when a sequence is built
func EventGenerator(gen Generator) EventSource {
	return EventSource{gen: gen}
}

// Resolve returns a private copy of the events for duration
func (s EventSource) Resolve(duration time.Duration, rng *rand.Rand) []Event {
	if s.gen != nil {
		return s.gen(duration, rng)
	}
	return slices.Clone(s.events)
}

// TriggerFunc dispatches one due event
type TriggerFunc func(ev Event)

// SequenceOptions configures a sequence player
type SequenceOptions struct {
	Color    string        // color for events without their own
	Duration time.Duration // passed to generators
	Offset   Position      // added to every event position
	Rand     *rand.Rand    // passed to generators
	Trigger  TriggerFunc   // replaces the default fade dispatch
}

// Sequence replays a time-sorted event list against elapsed time.
// Ticks must be presented with nondecreasing now.
type Sequence struct {
	events   []Event
	cursor   int
	start    time.Duration
	dispatch TriggerFunc
}

// NewSequence resolves src, drops events that land off the grid and sorts the rest by time.
// Events are dispatched to fades unless opts.Trigger is set
func NewSequence(fades *Fades, src EventSource, start time.Duration, opts SequenceOptions) *Sequence {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(start), 0))
	}

	events := src.Resolve(opts.Duration, opts.Rand)
	kept := events[:0]
	for _, ev := range events {
		ev.Pos = ev.Pos.Add(opts.Offset)
		if ev.Pos.Valid() {
			kept = append(kept, ev)
		}
	}
	slices.SortStableFunc(kept, func(a, b Event) int {
		return cmp.Compare(a.Time, b.Time)
	})

	dispatch := opts.Trigger
	if dispatch == nil {
		dispatch = FadeTrigger(fades, opts.Color)
	}

	return &Sequence{
		events:   kept,
		start:    start,
		dispatch: dispatch,
	}
}

// FadeTrigger dispatches events as fades, using color for events without one
func FadeTrigger(fades *Fades, color string) TriggerFunc {
	return func(ev Event) {
		c := ev.Color
		if c == "" {
			c = color
		}
		fades.Add(ev.Pos, c, ev.Duration, ev.Mode)
	}
}

// Tick dispatches every event due by now and reports whether the list is exhausted
func (s *Sequence) Tick(now time.Duration) bool {
	elapsed := now - s.start
	for s.cursor < len(s.events) && s.events[s.cursor].Time <= elapsed {
		s.dispatch(s.events[s.cursor])
		s.cursor++
	}
	return s.cursor >= len(s.events)
}

// Len returns the number of events in the sequence
func (s *Sequence) Len() int {
	return len(s.events)
}

// Remaining returns the number of events not yet dispatched
func (s *Sequence) Remaining() int {
	return len(s.events) - s.cursor
}
