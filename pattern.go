package xmkit

const (
	patternHeaderMin = 9
	maxPatternRows   = 256
)

type (
	// Pattern is one section of the song: a grid of rows and channels. Each
	// channel is stored as a Track, and every Track has exactly Rows() rows.
	Pattern struct {
		rows   int
		tracks []Track
	}

	// Track is one channel of a Pattern. The five fields of every row are
	// stored as they were coded: a field that was not coded on a row is
	// empty, not zero. Carrying values over from earlier rows is done by
	// the query methods (Note, Instrument, Volume, Fx), never in storage.
	Track struct {
		notes       []OptionalByte
		instruments []OptionalByte
		volumes     []OptionalByte
		commands    []OptionalByte
		params      []OptionalByte
	}
)

// Rows returns the number of rows in the pattern, 1..256.
func (p *Pattern) Rows() int {
	return p.rows
}

// Channels returns the number of tracks in the pattern.
func (p *Pattern) Channels() int {
	return len(p.tracks)
}

// Track returns the track of the given channel, or nil if the channel does
// not exist.
func (p *Pattern) Track(channel int) *Track {
	if channel < 0 || channel >= len(p.tracks) {
		return nil
	}
	return &p.tracks[channel]
}

// Rows returns the number of rows in the track.
func (t *Track) Rows() int {
	return len(t.notes)
}

func (t *Track) NoteRaw(row int) OptionalByte       { return getOptional(t.notes, row) }
func (t *Track) InstrumentRaw(row int) OptionalByte { return getOptional(t.instruments, row) }
func (t *Track) VolumeRaw(row int) OptionalByte     { return getOptional(t.volumes, row) }
func (t *Track) CommandRaw(row int) OptionalByte    { return getOptional(t.commands, row) }
func (t *Track) ParamRaw(row int) OptionalByte      { return getOptional(t.params, row) }

// Effect returns the effect command and parameter coded on the row. The
// packing scheme leaves out zero bytes, so a row with only one of the two
// present reads the other as zero. ok is false when neither is coded.
func (t *Track) Effect(row int) (command, param byte, ok bool) {
	c, p := t.CommandRaw(row), t.ParamRaw(row)
	if c.Empty() && p.Empty() {
		return 0, 0, false
	}
	return c.Or(0), p.Or(0), true
}

// getOptional returns the value at index; or an empty optional if the index
// is out of range
func getOptional(s []OptionalByte, index int) OptionalByte {
	if index < 0 || index >= len(s) {
		return OptionalByte{}
	}
	return s[index]
}

func newTrack(rows int) Track {
	return Track{
		notes:       make([]OptionalByte, rows),
		instruments: make([]OptionalByte, rows),
		volumes:     make([]OptionalByte, rows),
		commands:    make([]OptionalByte, rows),
		params:      make([]OptionalByte, rows),
	}
}

// patternSize returns the total byte length of the pattern record at the
// start of data: header length plus packed data size.
func patternSize(data []byte) (int, error) {
	if len(data) < patternHeaderMin {
		return 0, formatErrorf("pattern header truncated: %d bytes", len(data))
	}
	headerLen := readU32(data, 0)
	if headerLen < patternHeaderMin {
		return 0, formatErrorf("pattern header length %d too small", headerLen)
	}
	return headerLen + readU16(data, 7), nil
}

// parsePattern decodes one pattern record. data must span exactly the
// pattern header and its packed cell data.
func parsePattern(data []byte, channels int) (*Pattern, error) {
	size, err := patternSize(data)
	if err != nil {
		return nil, err
	}
	if size != len(data) {
		return nil, formatErrorf("pattern data corrupt or incomplete: declared %d bytes, got %d", size, len(data))
	}
	if packing := data[4]; packing != 0 {
		return nil, formatErrorf("unsupported pattern packing type %d", packing)
	}
	rows := readU16(data, 5)
	if rows < 1 || rows > maxPatternRows {
		return nil, formatErrorf("pattern row count %d out of range 1..%d", rows, maxPatternRows)
	}
	headerLen := readU32(data, 0)
	packed := data[headerLen:]
	p := &Pattern{rows: rows, tracks: make([]Track, channels)}
	for i := range p.tracks {
		p.tracks[i] = newTrack(rows)
	}
	if len(packed) == 0 {
		// Empty patterns are stored with no cell data at all.
		return p, nil
	}
	pos := 0
	next := func() (byte, bool) {
		if pos >= len(packed) {
			return 0, false
		}
		b := packed[pos]
		pos++
		return b, true
	}
	for row := 0; row < rows; row++ {
		for ch := 0; ch < channels; ch++ {
			t := &p.tracks[ch]
			fields := [5][]OptionalByte{t.notes, t.instruments, t.volumes, t.commands, t.params}
			ctrl, ok := next()
			if !ok {
				return nil, formatErrorf("pattern cell data ends at row %d channel %d", row, ch)
			}
			if ctrl&0x80 == 0 {
				// Unpacked cell: the control byte is the note and all four
				// other fields follow.
				fields[0][row] = NewOptionalByteOf(ctrl)
				for f := 1; f < 5; f++ {
					b, ok := next()
					if !ok {
						return nil, formatErrorf("pattern cell data ends at row %d channel %d", row, ch)
					}
					fields[f][row] = NewOptionalByteOf(b)
				}
				continue
			}
			for f := 0; f < 5; f++ {
				if ctrl&(1<<f) == 0 {
					continue
				}
				b, ok := next()
				if !ok {
					return nil, formatErrorf("pattern cell data ends at row %d channel %d", row, ch)
				}
				fields[f][row] = NewOptionalByteOf(b)
			}
		}
	}
	if pos != len(packed) {
		return nil, formatErrorf("pattern cell data is %d bytes, decoding used %d", len(packed), pos)
	}
	return p, nil
}
