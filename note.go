package xmkit

import "fmt"

// Note is a note value as stored in pattern data: 0 is no note, 1..96 are
// C-0..B-7, and 97 is key off.
type Note byte

const (
	NoteNone   Note = 0
	NoteFirst  Note = 1
	NoteLast   Note = 96
	NoteKeyOff Note = 97
)

var noteNames = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// Triggers reports whether the note starts a new sample playing.
func (n Note) Triggers() bool {
	return n >= NoteFirst && n <= NoteLast
}

// String formats the note the way trackers show it, e.g. "C#4".
func (n Note) String() string {
	switch {
	case n == NoteNone:
		return "..."
	case n == NoteKeyOff:
		return "==="
	case n.Triggers():
		i := int(n) - 1
		return fmt.Sprintf("%s%d", noteNames[i%12], i/12)
	}
	return fmt.Sprintf("?%02X", byte(n))
}
