package xmkit

import (
	"bytes"
	"os"
)

// Fixed offsets of the module header.
const (
	offModuleName    = 0x11
	offTrackerName   = 0x25
	offVersionMinor  = 0x3a
	offVersionMajor  = 0x3b
	offHeaderSize    = 0x3c
	offSequenceLen   = 0x40
	offRestartPos    = 0x42
	offChannelCount  = 0x44
	offPatternCount  = 0x46
	offInstrumentCnt = 0x48
	offFreqTable     = 0x4a
	offDefaultTempo  = 0x4c
	offDefaultBPM    = 0x4e
	offSequence      = 0x50

	minModuleSize = 60
)

// Magic is the signature every eXtended Module starts with.
const Magic = "Extended Module: "

// Module is a parsed eXtended Module (version 1.04). A Module is built once
// by Parse and never modified afterwards, so it is safe to query from
// several goroutines at once.
type Module struct {
	name         string
	trackerName  string
	channels     int
	restartPos   int
	freqTable    byte
	defaultTempo byte
	defaultBPM   byte
	order        Order
	patterns     []Pattern
	instruments  []Instrument
}

// ParseFile reads the whole file and parses it. Failures to read the file
// are returned as *IOError; everything else as from Parse.
func ParseFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return Parse(data)
}

// Parse decodes an eXtended Module. It either returns a complete Module or
// an error; a *FormatError when the data is not a valid version 1.04 module.
// Parse does not keep references to data.
func Parse(data []byte) (*Module, error) {
	if err := verify(data); err != nil {
		return nil, err
	}
	headerEnd := offHeaderSize + readU32(data, offHeaderSize)
	seqLen := readU16(data, offSequenceLen)
	if offSequence+seqLen > headerEnd {
		return nil, formatErrorf("order list of %d entries does not fit in a header of %d bytes", seqLen, headerEnd)
	}
	m := &Module{
		name:         readString(data, offModuleName, 20),
		trackerName:  readString(data, offTrackerName, 20),
		channels:     int(data[offChannelCount]),
		restartPos:   readU16(data, offRestartPos),
		freqTable:    data[offFreqTable],
		defaultTempo: data[offDefaultTempo],
		defaultBPM:   data[offDefaultBPM],
		order:        append(Order(nil), data[offSequence:offSequence+seqLen]...),
	}
	offset := headerEnd
	numPatterns := int(data[offPatternCount])
	m.patterns = make([]Pattern, numPatterns)
	for i := range m.patterns {
		size, err := patternSize(data[offset:])
		if err != nil {
			return nil, formatErrorf("pattern %d: %v", i, err)
		}
		if offset+size > len(data) {
			return nil, formatErrorf("pattern %d: need %d bytes, only %d left", i, size, len(data)-offset)
		}
		p, err := parsePattern(data[offset:offset+size], m.channels)
		if err != nil {
			return nil, formatErrorf("pattern %d: %v", i, err)
		}
		m.patterns[i] = *p
		offset += size
	}
	numInstruments := int(data[offInstrumentCnt])
	m.instruments = make([]Instrument, numInstruments)
	for i := range m.instruments {
		size, err := instrumentSize(data[offset:])
		if err != nil {
			return nil, formatErrorf("instrument %d: %v", i, err)
		}
		if offset+size > len(data) {
			return nil, formatErrorf("instrument %d: need %d bytes, only %d left", i, size, len(data)-offset)
		}
		inst, err := parseInstrument(data[offset : offset+size])
		if err != nil {
			return nil, formatErrorf("instrument %d: %v", i, err)
		}
		m.instruments[i] = *inst
		offset += size
	}
	return m, nil
}

func verify(data []byte) error {
	if len(data) < minModuleSize {
		return formatErrorf("corrupted or invalid XM data: %d bytes", len(data))
	}
	if !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return formatErrorf("not an eXtended Module")
	}
	if data[offVersionMinor] != 4 || data[offVersionMajor] != 1 {
		return formatErrorf("XM data not from version 1.04 XM standard (got %d.%02d)", data[offVersionMajor], data[offVersionMinor])
	}
	// the header size counts from its own offset, not from the start
	headerEnd := uint64(offHeaderSize) + uint64(readU32(data, offHeaderSize))
	if uint64(len(data)) < headerEnd {
		return formatErrorf("corrupted or invalid XM data: header of %d bytes, data has %d", headerEnd, len(data))
	}
	if headerEnd < offSequence {
		return formatErrorf("header size %d too small", headerEnd-offHeaderSize)
	}
	return nil
}

func (m *Module) Name() string        { return m.name }
func (m *Module) TrackerName() string { return m.trackerName }

// Channels returns the number of channels; every pattern has this many
// tracks.
func (m *Module) Channels() int { return m.channels }

func (m *Module) NumPatterns() int    { return len(m.patterns) }
func (m *Module) NumInstruments() int { return len(m.instruments) }

// Len returns the song length: the number of entries in the order list.
func (m *Module) Len() int { return len(m.order) }

// RestartPos returns the order list position the song loops back to.
func (m *Module) RestartPos() int { return m.restartPos }

// AmigaFrequencyTable reports whether the module uses the logarithmic Amiga
// frequency table instead of the linear one.
func (m *Module) AmigaFrequencyTable() bool { return m.freqTable == 0 }

func (m *Module) DefaultTempo() byte { return m.defaultTempo }
func (m *Module) DefaultBPM() byte   { return m.defaultBPM }

// Order returns a copy of the order list.
func (m *Module) Order() Order {
	return append(Order(nil), m.order...)
}

// Pattern returns the pattern with the given index, or nil.
func (m *Module) Pattern(index int) *Pattern {
	if index < 0 || index >= len(m.patterns) {
		return nil
	}
	return &m.patterns[index]
}

// Instrument returns the instrument at index, or nil. Note that pattern data
// numbers instruments from 1, so instrument n of a track is Instrument(n-1).
func (m *Module) Instrument(index int) *Instrument {
	if index < 0 || index >= len(m.instruments) {
		return nil
	}
	return &m.instruments[index]
}

// OrderPattern returns the pattern played at the order list position. ok is
// false if the position is outside the order list, or if the entry refers to
// a pattern that does not exist.
func (m *Module) OrderPattern(pos int) (p *Pattern, ok bool) {
	p = m.Pattern(m.order.Get(pos))
	return p, p != nil
}

// PatternUsed reports whether the pattern appears in the order list.
func (m *Module) PatternUsed(index int) bool {
	for _, o := range m.order {
		if int(o) == index {
			return true
		}
	}
	return false
}
