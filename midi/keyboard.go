package midi

import (
	"fmt"

	"go-padlight/animation"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KeyboardController handles a standard MIDI keyboard
type KeyboardController struct {
	id       string
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		padChan:  make(chan PadEvent, 32),
		noteChan: make(chan NoteEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			if ev, ok := noteEvent(msg); ok {
				select {
				case kb.noteChan <- ev:
				default:
				}
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) PadEvents() <-chan PadEvent {
	return kb.padChan // Keyboards don't have pads
}

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent {
	return kb.noteChan
}

// Output is nil: keyboards have no LEDs
func (kb *KeyboardController) Output() Transport {
	return nil
}

func (kb *KeyboardController) Clear() error {
	return nil
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.padChan)
	close(kb.noteChan)
	return nil
}

// noteEvent decodes a note start or end. Note on with velocity 0 is an end
func noteEvent(msg gomidi.Message) (NoteEvent, bool) {
	var channel, note, velocity uint8
	switch {
	case msg.GetNoteStart(&channel, &note, &velocity):
		return NoteEvent{Note: note, Velocity: velocity, Channel: channel, Pressed: true}, true
	case msg.GetNoteEnd(&channel, &note):
		return NoteEvent{Note: note, Channel: channel}, true
	}
	return NoteEvent{}, false
}

// NotePosition folds a note onto the grid, eight notes per row from the bottom
// left, wrapping every 64 notes
func NotePosition(note uint8) animation.Position {
	n := int(note) % animation.GridCells
	return animation.Position{
		X: n % animation.GridSize,
		Y: animation.GridSize - 1 - n/animation.GridSize,
	}
}
