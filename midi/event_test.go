package midi

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-padlight/animation"
)

func TestSplitMessages(t *testing.T) {
	data := []byte{
		0x90, 0x01, 0x3F, // note on
		0xB0, 0x68, 0x0F, // cc
		0xF0, 0x00, 0x20, 0x29, 0xF7, // sysex
		0x05,       // stray data byte
		0xC0, 0x02, // program change
		0x90, 0x01, // truncated
	}
	got := splitMessages(data)
	want := [][]byte{
		{0x90, 0x01, 0x3F},
		{0xB0, 0x68, 0x0F},
		{0xF0, 0x00, 0x20, 0x29, 0xF7},
		{0xC0, 0x02},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages: % X", len(got), got)
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("message %d = % X, want % X", i, got[i], want[i])
		}
	}
}

func TestNotePosition(t *testing.T) {
	tests := []struct {
		note uint8
		want animation.Position
	}{
		{0, animation.Position{X: 0, Y: 7}},
		{7, animation.Position{X: 7, Y: 7}},
		{8, animation.Position{X: 0, Y: 6}},
		{63, animation.Position{X: 7, Y: 0}},
		{64, animation.Position{X: 0, Y: 7}},
	}
	for _, tt := range tests {
		if got := NotePosition(tt.note); got != tt.want {
			t.Errorf("NotePosition(%d) = %v, want %v", tt.note, got, tt.want)
		}
	}
}

func TestClassifyPort(t *testing.T) {
	tests := []struct {
		name  string
		match string
		want  ControllerType
	}{
		{"Launchpad", "launchpad", ControllerLaunchpad},
		{"Launchpad X LPX MIDI In", "launchpad", ControllerLaunchpad},
		{"Launchpad X LPX DAW In", "launchpad", ControllerUnknown},
		{"Launchpad Mini", "lpx", ControllerUnknown},
		{"Midi Through Port-0", "launchpad", ControllerUnknown},
		{"Keystation 49", "launchpad", ControllerKeyboard},
	}
	for _, tt := range tests {
		if got := ClassifyPort(tt.name, tt.match); got != tt.want {
			t.Errorf("ClassifyPort(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestLaunchpadPressAndRelease(t *testing.T) {
	lp, err := NewLaunchpadController("lp", nil, nil, LegacyLayout{})
	if err != nil {
		t.Fatal(err)
	}
	pad := animation.Position{X: 0, Y: 7}
	button := animation.Position{X: 2, Y: animation.ControlRow}

	lp.handle(gomidi.NoteOn(0, 0x70, 100), 0)
	lp.handle(gomidi.NoteOn(0, 0x70, 0), 0)
	lp.handle(gomidi.NoteOff(0, 0x70), 0)
	lp.handle(gomidi.ControlChange(0, 0x6A, 127), 0)
	lp.handle(gomidi.ControlChange(0, 0x6A, 0), 0)

	want := []PadEvent{
		{Pos: pad, Velocity: 100, Pressed: true},
		{Pos: pad},
		{Pos: pad},
		{Pos: button, Velocity: 127, Pressed: true},
		{Pos: button},
	}
	for i, w := range want {
		select {
		case got := <-lp.PadEvents():
			if got != w {
				t.Errorf("event %d = %+v, want %+v", i, got, w)
			}
		default:
			t.Fatalf("event %d missing", i)
		}
	}
}

func TestKeyboardNoteEvents(t *testing.T) {
	tests := []struct {
		msg  gomidi.Message
		want NoteEvent
		ok   bool
	}{
		{gomidi.NoteOn(2, 60, 90), NoteEvent{Note: 60, Velocity: 90, Channel: 2, Pressed: true}, true},
		{gomidi.NoteOn(2, 60, 0), NoteEvent{Note: 60, Channel: 2}, true},
		{gomidi.NoteOff(2, 60), NoteEvent{Note: 60, Channel: 2}, true},
		{gomidi.ControlChange(0, 1, 64), NoteEvent{}, false},
	}
	for _, tt := range tests {
		got, ok := noteEvent(tt.msg)
		if ok != tt.ok || got != tt.want {
			t.Errorf("noteEvent(% X) = %+v, %v; want %+v, %v", []byte(tt.msg), got, ok, tt.want, tt.ok)
		}
	}
}
