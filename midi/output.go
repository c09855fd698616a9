package midi

import (
	"cmp"
	"slices"
	"sync"

	"go-padlight/animation"
	"go-padlight/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Transport carries raw MIDI bytes to a device. Write must not keep msg
type Transport interface {
	Write(msg []byte) error
}

// GridOutput is the device sink. It keeps the latest code per LED address and
// sends everything pending in one transport write per flush.
//
// SetDeviceColor and FlushDeviceColors belong to the engine goroutine;
// SetTransport may be called from anywhere.
type GridOutput struct {
	layout Layout

	mu        sync.Mutex
	transport Transport

	pending map[Address]uint8
	order   []Address
	buf     []byte
	flushes uint64
}

// NewGridOutput creates a device sink using layout. A nil layout means LegacyLayout
func NewGridOutput(layout Layout) *GridOutput {
	if layout == nil {
		layout = LegacyLayout{}
	}
	return &GridOutput{
		layout:  layout,
		pending: make(map[Address]uint8),
	}
}

// SetTransport attaches t, or detaches the current transport when t is nil
func (g *GridOutput) SetTransport(t Transport) {
	g.mu.Lock()
	g.transport = t
	g.mu.Unlock()
}

// Layout returns the address layout in use
func (g *GridOutput) Layout() Layout {
	return g.layout
}

// SetDeviceColor records code for pos. A later write to the same address in
// the same frame wins
func (g *GridOutput) SetDeviceColor(code uint8, pos animation.Position) {
	addr, ok := g.layout.Address(pos)
	if !ok {
		return
	}
	g.pending[addr] = code
}

// FlushDeviceColors sends every pending write and clears the pending set.
// Without a transport the writes are dropped. Transport errors are logged only
func (g *GridOutput) FlushDeviceColors() {
	if len(g.pending) == 0 {
		return
	}

	g.mu.Lock()
	t := g.transport
	g.mu.Unlock()

	if t == nil {
		clear(g.pending)
		return
	}

	g.order = g.order[:0]
	for a := range g.pending {
		g.order = append(g.order, a)
	}
	slices.SortFunc(g.order, func(a, b Address) int {
		if c := cmp.Compare(a.Cmd, b.Cmd); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	g.buf = g.buf[:0]
	for _, a := range g.order {
		g.buf = appendMessage(g.buf, a, g.pending[a])
	}
	n := len(g.pending)
	clear(g.pending)

	g.flushes++
	if err := t.Write(g.buf); err != nil {
		debug.Log("midi", "flush of %d writes failed: %v", n, err)
		return
	}
	debug.LogEvery(100, "midi", "flush #%d (%d writes, %d bytes)", g.flushes, n, len(g.buf))
}

// Pending returns the number of addresses waiting for the next flush
func (g *GridOutput) Pending() int {
	return len(g.pending)
}

func appendMessage(buf []byte, a Address, code uint8) []byte {
	if a.Cmd == CmdControl {
		return append(buf, gomidi.ControlChange(0, a.Index, code)...)
	}
	return append(buf, gomidi.NoteOn(0, a.Index, code)...)
}

// clearMessage encodes code 0 for every cell and control button of layout
func clearMessage(layout Layout) []byte {
	var buf []byte
	for y := 0; y <= animation.ControlRow; y++ {
		for x := 0; x < animation.GridSize; x++ {
			if a, ok := layout.Address(animation.Position{X: x, Y: y}); ok {
				buf = appendMessage(buf, a, 0)
			}
		}
	}
	return buf
}
