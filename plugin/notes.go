package plugin

// NoteCapacity is the number of simultaneously tracked notes.
const NoteCapacity = 16

const (
	statusMask    = 0xF0
	statusNoteOff = 0x80
	statusNoteOn  = 0x90
)

// Event is a raw three-byte MIDI message delivered by the host.
type Event struct {
	Data        [3]byte
	DeltaFrames int32
}

// NoteSet is a fixed-capacity set of active MIDI notes. Insertion takes the
// first empty slot; removal clears every slot holding the note. Slot order
// carries no meaning.
type NoteSet struct {
	slots [NoteCapacity]noteSlot
}

type noteSlot struct {
	note   uint8
	active bool
}

// NoteOn records note. It reports false when every slot is taken.
func (s *NoteSet) NoteOn(note uint8) bool {
	for i := range s.slots {
		if !s.slots[i].active {
			s.slots[i] = noteSlot{note: note, active: true}

			return true
		}
	}

	return false
}

// NoteOff forgets note.
func (s *NoteSet) NoteOff(note uint8) {
	for i := range s.slots {
		if s.slots[i].active && s.slots[i].note == note {
			s.slots[i] = noteSlot{}
		}
	}
}

// Contains reports whether note is active.
func (s *NoteSet) Contains(note uint8) bool {
	for _, slot := range s.slots {
		if slot.active && slot.note == note {
			return true
		}
	}

	return false
}

// Len returns the number of occupied slots.
func (s *NoteSet) Len() int {
	n := 0
	for _, slot := range s.slots {
		if slot.active {
			n++
		}
	}

	return n
}

// AppendNotes appends the active notes in slot order to dst.
func (s *NoteSet) AppendNotes(dst []uint8) []uint8 {
	for _, slot := range s.slots {
		if slot.active {
			dst = append(dst, slot.note)
		}
	}

	return dst
}

// Reset clears all slots.
func (s *NoteSet) Reset() {
	s.slots = [NoteCapacity]noteSlot{}
}

// Handle applies a raw MIDI message. Note-on with velocity 0 is a note-off;
// every other status is ignored. The channel nibble is not inspected.
func (s *NoteSet) Handle(data [3]byte) {
	switch data[0] & statusMask {
	case statusNoteOn:
		if data[2] == 0 {
			s.NoteOff(data[1])

			return
		}
		s.NoteOn(data[1])
	case statusNoteOff:
		s.NoteOff(data[1])
	}
}

// NoteToHz maps a MIDI note number linearly onto 440/32 Hz steps. This is
// not equal-tempered pitch.
func NoteToHz(note uint8) float64 {
	return 440.0 / 32.0 * float64(note)
}
