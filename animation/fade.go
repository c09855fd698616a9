package animation

import (
	"time"

	"go-padlight/palette"
)

type fadeState struct {
	pos      Position
	color    string
	start    time.Duration
	duration time.Duration
	mode     Mode
	sequence [3]string
	last     palette.Shade // last shade written, zero = nothing yet
}

// Fades owns one fade per animated cell and steps it through its tiers.
// A cell without a fade is never written; its last color stays on the sinks.
type Fades struct {
	colors   Colors
	visual   VisualSink
	device   DeviceSink
	defaults FadeDefaults
	now      func() time.Duration

	states arena[fadeState]
	grid   [GridCells]int32 // arena index + 1, 0 = no fade
	extra  map[Position]int32

	frame     uint64
	written   [GridCells]uint64 // frame each grid cell was last written
	extraSeen map[Position]uint64
	pending   []Position // added since the last Tick
}

// NewFades creates a fade engine writing to the given sinks. Nil sinks discard writes
func NewFades(colors Colors, visual VisualSink, device DeviceSink, defaults FadeDefaults, now func() time.Duration) *Fades {
	if visual == nil {
		visual = discardSink{}
	}
	if device == nil {
		device = discardSink{}
	}
	return &Fades{
		colors:    colors,
		visual:    visual,
		device:    device,
		defaults:  defaults,
		now:       now,
		extra:     make(map[Position]int32),
		extraSeen: make(map[Position]uint64),
		frame:     1,
	}
}

// Add starts or restarts the fade at pos. A zero duration takes the mode default.
// sequence supplies the three colors of a ModeMulti fade.
// Any fade already running at pos is replaced outright.
func (f *Fades) Add(pos Position, color string, duration time.Duration, mode Mode, sequence ...string) {
	if !pos.Valid() {
		return
	}
	if duration <= 0 {
		duration = f.defaults.forMode(mode)
	}

	idx, ok := f.lookup(pos)
	if !ok {
		idx = f.states.acquire()
		f.store(pos, idx)
	}

	s := f.states.at(idx)
	*s = fadeState{
		pos:      pos,
		color:    color,
		start:    f.now(),
		duration: duration,
		mode:     mode,
	}
	copy(s.sequence[:], sequence)
	f.pending = append(f.pending, pos)
}

// Off turns pos off on the next Tick
func (f *Fades) Off(pos Position) {
	f.Add(pos, palette.OffName, 0, ModeInstant)
}

// Clear turns every live cell off on the next Tick
func (f *Fades) Clear() {
	for i := range f.grid {
		if slot := f.grid[i]; slot != 0 {
			f.states.at(slot - 1).color = palette.OffName
		}
	}
	for _, idx := range f.extra {
		f.states.at(idx).color = palette.OffName
	}
}

// Repaint makes every live fade write its current tier on the next Tick,
// e.g. for a device attached mid-fade
func (f *Fades) Repaint() {
	for _, slot := range f.grid {
		if slot != 0 {
			f.states.at(slot - 1).last = palette.Shade{}
		}
	}
	for _, idx := range f.extra {
		f.states.at(idx).last = palette.Shade{}
	}
}

// Tick writes the current tier of every live fade and recycles the expired ones
func (f *Fades) Tick(now time.Duration) {
	f.frame++
	f.pending = f.pending[:0]

	for i := range f.grid {
		slot := f.grid[i]
		if slot == 0 {
			continue
		}
		if f.step(slot-1, now) {
			f.grid[i] = 0
			f.states.release(slot - 1)
		}
	}
	for pos, idx := range f.extra {
		if f.step(idx, now) {
			delete(f.extra, pos)
			f.states.release(idx)
		}
	}
}

// PaintNew writes the first tier of fades added since the last Tick, unless their
// cell has already been written this frame
func (f *Fades) PaintNew(now time.Duration) {
	for _, pos := range f.pending {
		idx, ok := f.lookup(pos)
		if !ok || f.writtenThisFrame(pos) {
			continue
		}
		s := f.states.at(idx)
		if s.last != (palette.Shade{}) || s.color == palette.OffName {
			continue
		}
		if shade, ok := f.shade(s, now-s.start); ok {
			f.write(s.pos, shade)
			s.last = shade
		}
	}
	f.pending = f.pending[:0]
}

// Live reports whether pos has a running fade
func (f *Fades) Live(pos Position) bool {
	_, ok := f.lookup(pos)
	return ok
}

// Len returns the number of running fades
func (f *Fades) Len() int {
	st := f.states.stats()
	return st.Allocated - st.Free
}

// Stats reports fade pool usage
func (f *Fades) Stats() PoolStats {
	return f.states.stats()
}

// step advances one fade and reports whether it has expired
func (f *Fades) step(idx int32, now time.Duration) bool {
	s := f.states.at(idx)
	elapsed := now - s.start
	if elapsed < 0 {
		elapsed = 0
	}

	if s.color == palette.OffName || elapsed >= s.duration {
		f.write(s.pos, palette.Off)
		return true
	}

	shade, ok := f.shade(s, elapsed)
	if !ok {
		return true
	}
	if shade != s.last {
		f.write(s.pos, shade)
		s.last = shade
	}
	return false
}

func (f *Fades) shade(s *fadeState, elapsed time.Duration) (palette.Shade, bool) {
	name := s.color
	tier := palette.Full

	switch s.mode {
	case ModeInstant:
	case ModeShort:
		if elapsed >= s.duration/2 {
			tier = palette.Medium
		}
	case ModeMulti:
		if n := s.sequence[third(elapsed, s.duration)]; n != "" {
			name = n
		}
		if name == palette.OffName {
			return palette.Off, true
		}
	default:
		tier = palette.Tier(third(elapsed, s.duration))
	}

	c, ok := f.colors.Lookup(name)
	if !ok {
		return palette.Shade{}, false
	}
	return c.Shade(tier), true
}

// third returns which third of d elapsed falls in
func third(elapsed, d time.Duration) int {
	if d <= 0 {
		return 2
	}
	n := int(elapsed * 3 / d)
	if n > 2 {
		n = 2
	}
	return n
}

func (f *Fades) write(pos Position, shade palette.Shade) {
	f.visual.SetVisualColor(shade.Token, pos)
	f.device.SetDeviceColor(shade.Code, pos)
	if pos.InGrid() {
		f.written[pos.index()] = f.frame
	} else {
		f.extraSeen[pos] = f.frame
	}
}

func (f *Fades) writtenThisFrame(pos Position) bool {
	if pos.InGrid() {
		return f.written[pos.index()] == f.frame
	}
	return f.extraSeen[pos] == f.frame
}

func (f *Fades) lookup(pos Position) (int32, bool) {
	if pos.InGrid() {
		slot := f.grid[pos.index()]
		return slot - 1, slot != 0
	}
	idx, ok := f.extra[pos]
	return idx, ok
}

func (f *Fades) store(pos Position, idx int32) {
	if pos.InGrid() {
		f.grid[pos.index()] = idx + 1
		return
	}
	f.extra[pos] = idx
}
