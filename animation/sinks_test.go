package animation

import (
	"time"

	"go-padlight/palette"
)

type visualWrite struct {
	token string
	pos   Position
}

// recordingSink captures writes from both sink interfaces
type recordingSink struct {
	visual  []visualWrite
	codes   map[Position]uint8
	tokens  map[Position]string
	flushes int
	devFl   int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		codes:  make(map[Position]uint8),
		tokens: make(map[Position]string),
	}
}

func (r *recordingSink) SetVisualColor(token string, pos Position) {
	r.visual = append(r.visual, visualWrite{token, pos})
	r.tokens[pos] = token
}

func (r *recordingSink) FlushVisual() { r.flushes++ }

func (r *recordingSink) SetDeviceColor(code uint8, pos Position) {
	r.codes[pos] = code
}

func (r *recordingSink) FlushDeviceColors() { r.devFl++ }

func (r *recordingSink) reset() {
	r.visual = r.visual[:0]
}

// writesTo counts visual writes for pos since the last reset
func (r *recordingSink) writesTo(pos Position) int {
	n := 0
	for _, w := range r.visual {
		if w.pos == pos {
			n++
		}
	}
	return n
}

type fakeTime struct {
	now time.Duration
}

func (f *fakeTime) Now() time.Duration { return f.now }

func newTestFades(sink *recordingSink, clock *fakeTime) *Fades {
	return NewFades(palette.New(palette.KindLegacy), sink, sink, DefaultFades, clock.Now)
}

func shadeOf(name string, tier palette.Tier) palette.Shade {
	c, _ := palette.New(palette.KindLegacy).Lookup(name)
	return c.Shade(tier)
}
