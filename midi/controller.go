package midi

import "go-padlight/animation"

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerKeyboard
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	case ControllerKeyboard:
		return "keyboard"
	}
	return "unknown"
}

// PadEvent is sent when a pad or control button is pressed or released on a
// grid controller
type PadEvent struct {
	Pos      animation.Position
	Velocity uint8 // 0 on release
	Pressed  bool
}

// NoteEvent is sent when a note starts or ends on a keyboard
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
	Pressed  bool
}

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Input events from the controller
	PadEvents() <-chan PadEvent   // grid controllers
	NoteEvents() <-chan NoteEvent // keyboards

	// Output returns the transport for LED writes, nil if the device has none
	Output() Transport
	Clear() error

	Close() error
}
