package xmkit

const (
	volumeSetMin  = 0x10
	volumeSetMax  = 0x50
	defaultVolume = 0x40
	// set speed parameters at or above this set the BPM, below it the tempo
	bpmThreshold = 0x20
)

func (t *Track) checkRow(row int) error {
	if row < 0 || row >= t.Rows() {
		return &RowOutOfRangeError{Row: row, Rows: t.Rows()}
	}
	return nil
}

// triggers reports whether a new note is started on the row.
func (t *Track) triggers(row int) bool {
	n, ok := t.notes[row].Unpack()
	return ok && Note(n).Triggers()
}

// Note returns the last note coded at or before row, or 0 if there is none.
func (t *Track) Note(row int) (byte, error) {
	return t.lastCoded(t.notes, row)
}

// Instrument returns the last instrument coded at or before row, or 0 if
// there is none.
func (t *Track) Instrument(row int) (byte, error) {
	return t.lastCoded(t.instruments, row)
}

func (t *Track) lastCoded(field []OptionalByte, row int) (byte, error) {
	if err := t.checkRow(row); err != nil {
		return 0, err
	}
	for r := row; r >= 0; r-- {
		if v, ok := field[r].Unpack(); ok {
			return v, nil
		}
	}
	return 0, nil
}

// Volume returns the volume (0..0x40) in effect at row. Only volume column
// bytes 0x10..0x50 set the volume; the other volume column commands are
// ignored. The volume is only carried within the lifetime of a note: the
// search stops at the last note trigger, and the default of 0x40 is
// returned if no volume was set since.
func (t *Track) Volume(row int) (byte, error) {
	if err := t.checkRow(row); err != nil {
		return 0, err
	}
	for r := row; r >= 0; r-- {
		if v, ok := t.volumes[r].Unpack(); ok && v >= volumeSetMin && v <= volumeSetMax {
			return v - volumeSetMin, nil
		}
		if t.triggers(r) {
			break
		}
	}
	return defaultVolume, nil
}

// Fx returns the parameter of effect e in effect at row. The track is
// replayed from the first row: a note trigger resets the effect to its
// default; a command for the effect sets its value, except that a zero
// parameter recalls the previous value if the effect has memory; any other
// command resets an effect without memory to its default.
func (t *Track) Fx(e Effect, row int) (byte, error) {
	if !e.Valid() {
		return 0, &InvalidEffectError{Effect: e}
	}
	if err := t.checkRow(row); err != nil {
		return 0, err
	}
	value := e.Default()
	for r := 0; r <= row; r++ {
		if t.triggers(r) {
			value = e.Default()
		}
		command, param, ok := t.Effect(r)
		if !ok {
			continue
		}
		v, matched := e.match(command, param)
		switch {
		case matched && (v != 0 || !e.Memory()):
			value = v
		case matched:
			// zero parameter recalls the previous value
		case !e.Memory():
			value = e.Default()
		}
	}
	return value, nil
}

// BPM returns the BPM in effect at row of the pattern: the last set speed
// command with a parameter of 0x20 or more, scanning rows in order and
// channels in order within each row. If there is none, the module default
// is returned.
func (p *Pattern) BPM(m *Module, row int) (byte, error) {
	bpm, _, err := p.SpeedAt(row)
	return bpm.Or(m.DefaultBPM()), err
}

// Tempo returns the tempo (ticks per row) in effect at row of the pattern:
// the last set speed command with a parameter below 0x20. If there is none,
// the module default is returned.
func (p *Pattern) Tempo(m *Module, row int) (byte, error) {
	_, tempo, err := p.SpeedAt(row)
	return tempo.Or(m.DefaultTempo()), err
}

// SpeedAt returns the last BPM and tempo set in the pattern at or before
// row. Either is empty if the pattern does not set it by then.
func (p *Pattern) SpeedAt(row int) (bpm, tempo OptionalByte, err error) {
	if row < 0 || row >= p.rows {
		return bpm, tempo, &RowOutOfRangeError{Row: row, Rows: p.rows}
	}
	for r := 0; r <= row; r++ {
		for ch := range p.tracks {
			command, param, ok := p.tracks[ch].Effect(r)
			if !ok || command != CommandSetSpeed {
				continue
			}
			if param >= bpmThreshold {
				bpm = NewOptionalByteOf(param)
			} else {
				tempo = NewOptionalByteOf(param)
			}
		}
	}
	return bpm, tempo, nil
}
