package midi

import (
	"go-padlight/animation"
	"go-padlight/config"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Layout maps grid positions to LED addresses and back
type Layout interface {
	Address(pos animation.Position) (Address, bool)
	Position(a Address) (animation.Position, bool)

	// Setup returns the messages that put the device into this layout
	Setup() []gomidi.Message
}

// LayoutFor returns the layout selected in the config
func LayoutFor(l config.Layout) Layout {
	if l == config.LayoutProgrammer {
		return ProgrammerLayout{}
	}
	return LegacyLayout{}
}

// Legacy Launchpad control strip: CC 0x68-0x6F
const legacyControlBase = 0x68

// LegacyLayout is the original Launchpad X-Y layout.
// Row y < 8 is note 16*y+x, the control strip is CC 0x68+x.
type LegacyLayout struct{}

func (LegacyLayout) Address(pos animation.Position) (Address, bool) {
	if !pos.Valid() {
		return Address{}, false
	}
	if pos.Y < animation.GridSize {
		return Address{Cmd: CmdNoteOn, Index: uint8(16*pos.Y + pos.X)}, true
	}
	return Address{Cmd: CmdControl, Index: uint8(legacyControlBase + pos.X)}, true
}

func (LegacyLayout) Position(a Address) (animation.Position, bool) {
	switch a.Cmd {
	case CmdNoteOn, CmdNoteOff:
		x, y := int(a.Index&0x0F), int(a.Index>>4)
		// column 8 is the scene button strip
		if x >= animation.GridSize || y >= animation.GridSize {
			return animation.Position{}, false
		}
		return animation.Position{X: x, Y: y}, true
	case CmdControl:
		if a.Index >= legacyControlBase && a.Index < legacyControlBase+animation.GridSize {
			return animation.Position{X: int(a.Index - legacyControlBase), Y: animation.ControlRow}, true
		}
	}
	return animation.Position{}, false
}

func (LegacyLayout) Setup() []gomidi.Message {
	// B0 00 00 resets the device and turns every LED off
	return []gomidi.Message{gomidi.ControlChange(0, 0, 0)}
}

// Launchpad X programmer mode top row: CC 91-98
const programmerControlBase = 91

// ProgrammerLayout is the Launchpad X programmer mode layout. The device counts
// rows from the bottom: the bottom row is notes 11-18, the top 81-88.
type ProgrammerLayout struct{}

func (ProgrammerLayout) Address(pos animation.Position) (Address, bool) {
	if !pos.Valid() {
		return Address{}, false
	}
	if pos.Y < animation.GridSize {
		row := animation.GridSize - 1 - pos.Y
		return Address{Cmd: CmdNoteOn, Index: uint8((row+1)*10 + pos.X + 1)}, true
	}
	return Address{Cmd: CmdControl, Index: uint8(programmerControlBase + pos.X)}, true
}

func (ProgrammerLayout) Position(a Address) (animation.Position, bool) {
	if a.Index >= programmerControlBase && a.Index < programmerControlBase+animation.GridSize {
		return animation.Position{X: int(a.Index - programmerControlBase), Y: animation.ControlRow}, true
	}
	if a.Cmd == CmdControl {
		return animation.Position{}, false
	}

	row := int(a.Index/10) - 1
	col := int(a.Index%10) - 1
	// col 8 is the scene button column
	if row < 0 || row >= animation.GridSize || col < 0 || col >= animation.GridSize {
		return animation.Position{}, false
	}
	return animation.Position{X: col, Y: animation.GridSize - 1 - row}, true
}

func (ProgrammerLayout) Setup() []gomidi.Message {
	return []gomidi.Message{
		// Programmer mode: F0 00 20 29 02 0C 00 7F F7
		gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}),
		// Brightness to maximum: F0 00 20 29 02 0C 08 7F F7
		gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}),
		// External LED feedback: F0 00 20 29 02 0C 0A 01 01 F7
		gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x0A, 0x01, 0x01}),
	}
}
