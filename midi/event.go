package midi

// MIDI status bytes on channel 1
const (
	CmdNoteOff uint8 = 0x80
	CmdNoteOn  uint8 = 0x90
	CmdControl uint8 = 0xB0
)

// Address is where a pad's LED lives on the wire: a status byte and a note or
// controller number
type Address struct {
	Cmd   uint8
	Index uint8
}

// messageLen returns the length of the message starting at data[0], or 0 if
// data does not start with a status byte
func messageLen(data []byte) int {
	status := data[0]
	if status < 0x80 {
		return 0
	}
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 2
	case 0xF0:
	default:
		return 3
	}

	switch status {
	case 0xF0:
		for i := 1; i < len(data); i++ {
			if data[i] == 0xF7 {
				return i + 1
			}
		}
		return len(data)
	case 0xF1, 0xF3:
		return 2
	case 0xF2:
		return 3
	}
	return 1
}

// splitMessages cuts a stream of concatenated MIDI messages into single
// messages. Stray data bytes are skipped and a truncated tail is dropped.
func splitMessages(data []byte) [][]byte {
	var msgs [][]byte
	for len(data) > 0 {
		n := messageLen(data)
		if n == 0 {
			data = data[1:]
			continue
		}
		if n > len(data) {
			break
		}
		msgs = append(msgs, data[:n])
		data = data[n:]
	}
	return msgs
}
