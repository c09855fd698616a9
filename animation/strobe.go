package animation

import "time"

const strobeFlashes = 4

type strobeState int

const (
	strobeWaiting strobeState = iota
	strobeFlashed
)

// Strobe flashes the whole grid once at the start of each of four equal intervals
type Strobe struct {
	fades    *Fades
	color    string
	start    time.Duration
	interval time.Duration
	onWindow time.Duration

	index int
	state strobeState
}

// NewStrobe splits total into four flashes; each lights for 40% of its interval
func NewStrobe(fades *Fades, start, total time.Duration, color string) *Strobe {
	interval := total / strobeFlashes
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Strobe{
		fades:    fades,
		color:    color,
		start:    start,
		interval: interval,
		onWindow: interval * 2 / 5,
		index:    -1,
	}
}

// Tick fires at most one flash per interval
func (s *Strobe) Tick(now time.Duration) bool {
	elapsed := now - s.start
	if elapsed < 0 {
		return false
	}
	idx := int(elapsed / s.interval)
	if idx >= strobeFlashes {
		return true
	}

	if idx != s.index {
		s.index = idx
		s.state = strobeWaiting
	}

	if s.state == strobeWaiting && elapsed-time.Duration(idx)*s.interval < s.onWindow {
		for y := 0; y < GridSize; y++ {
			for x := 0; x < GridSize; x++ {
				s.fades.Add(Position{X: x, Y: y}, s.color, s.onWindow, ModeInstant)
			}
		}
		s.state = strobeFlashed
	}
	return false
}
