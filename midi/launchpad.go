package midi

import (
	"fmt"
	"sync/atomic"

	"go-padlight/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PortTransport writes to a MIDI output port, one message per send
type PortTransport struct {
	name string
	send func(msg gomidi.Message) error
	sent atomic.Uint64
}

// NewPortTransport opens out for sending
func NewPortTransport(out drivers.Out) (*PortTransport, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	return &PortTransport{name: out.String(), send: send}, nil
}

// Write splits msg into single MIDI messages and sends them in order.
// It stops at the first failed send
func (p *PortTransport) Write(msg []byte) error {
	for _, m := range splitMessages(msg) {
		if err := p.send(gomidi.Message(m)); err != nil {
			return fmt.Errorf("send to %s: %w", p.name, err)
		}
		if n := p.sent.Add(1); n%1000 == 0 {
			debug.Log("lp-send", "%s: %d messages sent", p.name, n)
		}
	}
	return nil
}

// Sent returns the number of messages sent so far
func (p *PortTransport) Sent() uint64 {
	return p.sent.Load()
}

// LaunchpadController handles a Novation Launchpad in either layout
type LaunchpadController struct {
	id       string
	layout   Layout
	out      *PortTransport
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
}

// NewLaunchpadController opens the ports and puts the device into layout
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out, layout Layout) (*LaunchpadController, error) {
	if layout == nil {
		layout = LegacyLayout{}
	}
	lp := &LaunchpadController{
		id:       id,
		layout:   layout,
		padChan:  make(chan PadEvent, 32),
		noteChan: make(chan NoteEvent, 32),
	}

	if outPort != nil {
		out, err := NewPortTransport(outPort)
		if err != nil {
			return nil, err
		}
		lp.out = out

		for _, msg := range layout.Setup() {
			if err := out.send(msg); err != nil {
				return nil, fmt.Errorf("setup %s: %w", id, err)
			}
		}
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, lp.handle)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

func (lp *LaunchpadController) handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8
	var cc, value uint8

	switch {
	// grid pads, and the control strip on devices that send it as notes.
	// Note on with velocity 0 counts as a release
	case msg.GetNoteStart(&channel, &note, &velocity):
		lp.emit(Address{Cmd: CmdNoteOn, Index: note}, velocity)
	case msg.GetNoteEnd(&channel, &note):
		lp.emit(Address{Cmd: CmdNoteOn, Index: note}, 0)

	// control strip
	case msg.GetControlChange(&channel, &cc, &value):
		lp.emit(Address{Cmd: CmdControl, Index: cc}, value)
	}
}

func (lp *LaunchpadController) emit(a Address, velocity uint8) {
	pos, ok := lp.layout.Position(a)
	if !ok {
		return
	}
	select {
	case lp.padChan <- PadEvent{Pos: pos, Velocity: velocity, Pressed: velocity > 0}:
	default:
		debug.Log("midi", "%s: pad event dropped at %v", lp.id, pos)
	}
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) Type() ControllerType {
	return ControllerLaunchpad
}

func (lp *LaunchpadController) PadEvents() <-chan PadEvent {
	return lp.padChan
}

func (lp *LaunchpadController) NoteEvents() <-chan NoteEvent {
	return lp.noteChan // Launchpad doesn't send note events in the keyboard sense
}

// Output returns the LED transport, or nil when the device has no output port
func (lp *LaunchpadController) Output() Transport {
	if lp.out == nil {
		return nil
	}
	return lp.out
}

// Clear turns every LED off in one write
func (lp *LaunchpadController) Clear() error {
	if lp.out == nil {
		return nil
	}
	return lp.out.Write(clearMessage(lp.layout))
}

func (lp *LaunchpadController) Close() error {
	err := lp.Clear()
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.padChan)
	close(lp.noteChan)
	return err
}
