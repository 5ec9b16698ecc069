package xmkit

import "encoding/binary"

// Loop type bits of the sample type.
const (
	SampleLoopNone     byte = 0x01
	SampleLoopForward  byte = 0x02
	SampleLoopPingPong byte = 0x04
)

// Sample16Bit is the sample type bit for 16-bit sample data.
const Sample16Bit byte = 0x10

const sampleHeaderSize = 40

// Sample is one sample of an instrument. The sample data is kept in the
// delta coded form it is stored in; the Signed16, Unsigned16, Signed8 and
// Unsigned8 methods decode it into linear PCM on each call.
type Sample struct {
	length       int
	loopStart    int
	loopLength   int
	volume       byte
	finetune     int8
	flags        byte
	panning      byte
	relativeNote int8
	name         string
	data         []byte
}

func parseSampleHeader(s *Sample, h []byte) {
	s.length = readU32(h, 0)
	s.loopStart = readU32(h, 4)
	s.loopLength = readU32(h, 8)
	s.volume = h[12]
	s.finetune = int8(h[13])
	s.flags = h[14]
	s.panning = h[15]
	s.relativeNote = int8(h[16])
	s.name = readString(h, 18, 22)
}

func (s *Sample) Name() string { return s.name }

// DataLen returns the length of the stored sample data, in bytes.
func (s *Sample) DataLen() int { return s.length }

// Len returns the number of sample frames: DataLen for 8-bit samples and
// half of it for 16-bit samples.
func (s *Sample) Len() int {
	if s.Is16Bit() {
		return s.length / 2
	}
	return s.length
}

func (s *Sample) LoopStart() int  { return s.loopStart }
func (s *Sample) LoopLength() int { return s.loopLength }

// Volume returns the default volume, 0..64.
func (s *Sample) Volume() byte { return s.volume }

// Finetune returns the finetune, -128..127 in 1/128 semitones.
func (s *Sample) Finetune() int8 { return s.finetune }

// Type returns the raw type bits of the sample.
func (s *Sample) Type() byte { return s.flags }

func (s *Sample) Panning() byte      { return s.panning }
func (s *Sample) RelativeNote() int8 { return s.relativeNote }

// Is16Bit reports whether the sample data has 16-bit resolution.
func (s *Sample) Is16Bit() bool {
	return s.flags&Sample16Bit != 0
}

// LoopType returns one of SampleLoopNone, SampleLoopForward or
// SampleLoopPingPong. The no-loop bit wins over the forward bit; a type with
// neither set loops ping-pong.
func (s *Sample) LoopType() byte {
	switch {
	case s.flags&SampleLoopNone != 0:
		return SampleLoopNone
	case s.flags&SampleLoopForward != 0:
		return SampleLoopForward
	}
	return SampleLoopPingPong
}

// Native returns a copy of the sample data in its stored delta coded form.
func (s *Sample) Native() []byte {
	return append([]byte(nil), s.data...)
}

// Signed16 decodes the sample into signed 16-bit PCM. 8-bit samples are
// shifted to the upper byte. The running sums wrap around at the width of
// the sample data.
func (s *Sample) Signed16() []int16 {
	if s.Is16Bit() {
		return decodeDelta16(s.data)
	}
	return decodeDelta8(s.data)
}

// Unsigned16 decodes the sample into unsigned 16-bit PCM, centered at 32768.
func (s *Sample) Unsigned16() []uint16 {
	signed := s.Signed16()
	ret := make([]uint16, len(signed))
	for i, v := range signed {
		ret[i] = uint16(v) + 0x8000
	}
	return ret
}

// Signed8 decodes the sample into signed 8-bit PCM: the upper byte of
// Signed16.
func (s *Sample) Signed8() []int8 {
	signed := s.Signed16()
	ret := make([]int8, len(signed))
	for i, v := range signed {
		ret[i] = int8(v >> 8)
	}
	return ret
}

// Unsigned8 decodes the sample into unsigned 8-bit PCM: the upper byte of
// Unsigned16.
func (s *Sample) Unsigned8() []uint8 {
	unsigned := s.Unsigned16()
	ret := make([]uint8, len(unsigned))
	for i, v := range unsigned {
		ret[i] = uint8(v >> 8)
	}
	return ret
}

func decodeDelta8(data []byte) []int16 {
	ret := make([]int16, len(data))
	var v int8
	for i, d := range data {
		v += int8(d)
		ret[i] = int16(v) << 8
	}
	return ret
}

// decodeDelta16 ignores a trailing odd byte.
func decodeDelta16(data []byte) []int16 {
	ret := make([]int16, len(data)/2)
	var v int16
	for i := range ret {
		v += int16(binary.LittleEndian.Uint16(data[2*i:]))
		ret[i] = v
	}
	return ret
}
