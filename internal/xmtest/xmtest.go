// Package xmtest assembles synthetic eXtended Module files for tests.
package xmtest

import "encoding/binary"

// HeaderSize is the header size the Builder writes at offset 0x3C.
const HeaderSize = 276

// Builder describes a module; Bytes serializes it. Patterns and Instruments
// hold complete records, e.g. from Pattern and Instrument.Bytes.
type Builder struct {
	Name        string
	Tracker     string
	Channels    int
	Restart     int
	FreqTable   byte
	Tempo       byte
	BPM         byte
	Order       []byte
	Patterns    [][]byte
	Instruments [][]byte
}

func NewBuilder(channels int) *Builder {
	return &Builder{
		Name:      "test song",
		Tracker:   "FastTracker v2.00",
		Channels:  channels,
		FreqTable: 1,
		Tempo:     6,
		BPM:       125,
		Order:     []byte{0},
	}
}

func (b *Builder) Bytes() []byte {
	data := make([]byte, 0x3c+HeaderSize)
	copy(data, "Extended Module: ")
	copy(data[0x11:0x11+20], b.Name)
	copy(data[0x25:0x25+20], b.Tracker)
	data[0x3a] = 4
	data[0x3b] = 1
	binary.LittleEndian.PutUint32(data[0x3c:], HeaderSize)
	binary.LittleEndian.PutUint16(data[0x40:], uint16(len(b.Order)))
	binary.LittleEndian.PutUint16(data[0x42:], uint16(b.Restart))
	binary.LittleEndian.PutUint16(data[0x44:], uint16(b.Channels))
	binary.LittleEndian.PutUint16(data[0x46:], uint16(len(b.Patterns)))
	binary.LittleEndian.PutUint16(data[0x48:], uint16(len(b.Instruments)))
	data[0x4a] = b.FreqTable
	data[0x4c] = b.Tempo
	data[0x4e] = b.BPM
	copy(data[0x50:], b.Order)
	for _, p := range b.Patterns {
		data = append(data, p...)
	}
	for _, i := range b.Instruments {
		data = append(data, i...)
	}
	return data
}

// Pattern returns a pattern record with the given packed cell data. Cells
// are given row by row, channel by channel within a row.
func Pattern(rows int, cells ...[]byte) []byte {
	var packed []byte
	for _, c := range cells {
		packed = append(packed, c...)
	}
	ret := make([]byte, 9, 9+len(packed))
	binary.LittleEndian.PutUint32(ret, 9)
	binary.LittleEndian.PutUint16(ret[5:], uint16(rows))
	binary.LittleEndian.PutUint16(ret[7:], uint16(len(packed)))
	return append(ret, packed...)
}

// Full is an unpacked cell: all five fields present.
func Full(note, inst, vol, cmd, param byte) []byte {
	return []byte{note, inst, vol, cmd, param}
}

// Packed is a packed cell; values must be given for the bits set in mask.
func Packed(mask byte, values ...byte) []byte {
	return append([]byte{0x80 | mask}, values...)
}

// Empty is a packed cell with no fields.
func Empty() []byte { return []byte{0x80} }

// Fx is a packed cell with only an effect command and parameter.
func Fx(cmd, param byte) []byte { return Packed(0x18, cmd, param) }

// Repeat returns n copies of cell.
func Repeat(cell []byte, n int) [][]byte {
	ret := make([][]byte, n)
	for i := range ret {
		ret[i] = cell
	}
	return ret
}

// EmptyInstrument returns a 29 byte instrument record without samples.
func EmptyInstrument(name string) []byte {
	ret := make([]byte, 29)
	binary.LittleEndian.PutUint32(ret, 29)
	copy(ret[4:26], name)
	return ret
}

type (
	Sample struct {
		Name      string
		LoopStart uint32
		LoopLen   uint32
		Volume    byte
		Finetune  int8
		Flags     byte
		Panning   byte
		RelNote   int8
		Data      []byte
	}

	Envelope struct {
		Points                            [][2]uint16
		Sustain, LoopStart, LoopEnd, Type byte
	}

	Instrument struct {
		Name      string
		SampleMap [96]byte
		Volume    Envelope
		Panning   Envelope
		Vibrato   [4]byte
		Fadeout   uint16
		Samples   []Sample
	}
)

// InstrumentHeaderSize is the instrument header size Instrument.Bytes writes.
const InstrumentHeaderSize = 263

// Bytes returns the instrument record: header, sample headers and sample
// data.
func (ti Instrument) Bytes() []byte {
	h := make([]byte, InstrumentHeaderSize)
	binary.LittleEndian.PutUint32(h, InstrumentHeaderSize)
	copy(h[4:26], ti.Name)
	h[27] = byte(len(ti.Samples))
	binary.LittleEndian.PutUint32(h[29:], 40)
	copy(h[33:129], ti.SampleMap[:])
	for i, p := range ti.Volume.Points {
		binary.LittleEndian.PutUint16(h[129+4*i:], p[0])
		binary.LittleEndian.PutUint16(h[129+4*i+2:], p[1])
	}
	for i, p := range ti.Panning.Points {
		binary.LittleEndian.PutUint16(h[177+4*i:], p[0])
		binary.LittleEndian.PutUint16(h[177+4*i+2:], p[1])
	}
	h[225] = byte(len(ti.Volume.Points))
	h[226] = byte(len(ti.Panning.Points))
	h[227], h[228], h[229] = ti.Volume.Sustain, ti.Volume.LoopStart, ti.Volume.LoopEnd
	h[230], h[231], h[232] = ti.Panning.Sustain, ti.Panning.LoopStart, ti.Panning.LoopEnd
	h[233] = ti.Volume.Type
	h[234] = ti.Panning.Type
	copy(h[235:239], ti.Vibrato[:])
	binary.LittleEndian.PutUint16(h[239:], ti.Fadeout)
	ret := h
	for _, s := range ti.Samples {
		sh := make([]byte, 40)
		binary.LittleEndian.PutUint32(sh, uint32(len(s.Data)))
		binary.LittleEndian.PutUint32(sh[4:], s.LoopStart)
		binary.LittleEndian.PutUint32(sh[8:], s.LoopLen)
		sh[12] = s.Volume
		sh[13] = byte(s.Finetune)
		sh[14] = s.Flags
		sh[15] = s.Panning
		sh[16] = byte(s.RelNote)
		copy(sh[18:40], s.Name)
		ret = append(ret, sh...)
	}
	for _, s := range ti.Samples {
		ret = append(ret, s.Data...)
	}
	return ret
}
