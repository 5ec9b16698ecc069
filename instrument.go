package xmkit

// Envelope type bits.
const (
	EnvelopeOn      byte = 0x1
	EnvelopeSustain byte = 0x2
	EnvelopeLoop    byte = 0x4
)

const (
	instrumentHeaderMin  = 29
	instrumentHeaderFull = 241
	maxSamples           = 16
	maxEnvelopePoints    = 12
	sampleMapSize        = 96
)

type (
	// Instrument is a named set of samples, with the envelopes and vibrato
	// settings shared by all of them. An instrument without samples has
	// only a name: its envelope, vibrato, fadeout and sample map accessors
	// all report absent.
	Instrument struct {
		name      string
		samples   []Sample
		sampleMap []byte
		volume    Envelope
		panning   Envelope
		vibrato   Vibrato
		fadeout   uint16
	}

	// Envelope is a volume or panning envelope: up to 12 (tick, value)
	// points, with optional sustain point and loop.
	Envelope struct {
		points    []EnvelopePoint
		sustain   byte
		loopStart byte
		loopEnd   byte
		flags     byte
	}

	EnvelopePoint struct {
		X uint16 // tick
		Y uint16 // value, 0..64
	}

	// Vibrato is the automatic vibrato applied to all samples of an
	// instrument.
	Vibrato struct {
		Type  byte
		Sweep byte
		Depth byte
		Rate  byte
	}
)

func (i *Instrument) Name() string { return i.name }

// NumSamples returns the number of samples of the instrument, 0..16.
func (i *Instrument) NumSamples() int { return len(i.samples) }

// Sample returns the sample at index, or nil if there is no such sample.
func (i *Instrument) Sample(index int) *Sample {
	if index < 0 || index >= len(i.samples) {
		return nil
	}
	return &i.samples[index]
}

// SampleMap returns, for each of the 96 notes, the index of the sample
// played. ok is false if the instrument has no samples.
func (i *Instrument) SampleMap() (m []byte, ok bool) {
	if len(i.samples) == 0 {
		return nil, false
	}
	return append([]byte(nil), i.sampleMap...), true
}

func (i *Instrument) VolumeEnvelope() (Envelope, bool) {
	return i.volume, len(i.samples) > 0
}

func (i *Instrument) PanningEnvelope() (Envelope, bool) {
	return i.panning, len(i.samples) > 0
}

func (i *Instrument) Vibrato() (Vibrato, bool) {
	return i.vibrato, len(i.samples) > 0
}

// Fadeout returns the volume fadeout speed.
func (i *Instrument) Fadeout() (uint16, bool) {
	return i.fadeout, len(i.samples) > 0
}

// Points returns the envelope points; ok is false if the envelope has none.
func (e Envelope) Points() (p []EnvelopePoint, ok bool) {
	if len(e.points) == 0 {
		return nil, false
	}
	return append([]EnvelopePoint(nil), e.points...), true
}

// Type returns the envelope type bits, see EnvelopeOn, EnvelopeSustain and
// EnvelopeLoop.
func (e Envelope) Type() byte { return e.flags }

func (e Envelope) Enabled() bool { return e.flags&EnvelopeOn != 0 }

// Sustain returns the sustain point index; absent if the envelope has no
// points.
func (e Envelope) Sustain() (byte, bool) {
	return e.sustain, len(e.points) > 0
}

// LoopStart returns the loop start point index; absent if the envelope has
// no points or looping is off.
func (e Envelope) LoopStart() (byte, bool) {
	return e.loopStart, e.looping()
}

// LoopEnd returns the loop end point index; absent if the envelope has no
// points or looping is off.
func (e Envelope) LoopEnd() (byte, bool) {
	return e.loopEnd, e.looping()
}

func (e Envelope) looping() bool {
	return len(e.points) > 0 && e.flags&EnvelopeLoop != 0
}

// instrumentSize returns the byte length of the instrument record at the
// start of data, including its sample headers and sample data.
func instrumentSize(data []byte) (int, error) {
	if len(data) < instrumentHeaderMin {
		return 0, formatErrorf("instrument header truncated: %d bytes", len(data))
	}
	headerLen := readU32(data, 0)
	if headerLen < instrumentHeaderMin {
		return 0, formatErrorf("instrument header length %d too small", headerLen)
	}
	numSamples := int(data[27])
	if numSamples == 0 {
		return headerLen, nil
	}
	size := headerLen + numSamples*sampleHeaderSize
	if len(data) < size {
		return 0, formatErrorf("instrument sample headers truncated: need %d bytes, got %d", size, len(data))
	}
	for s := 0; s < numSamples; s++ {
		size += readU32(data, headerLen+s*sampleHeaderSize)
	}
	return size, nil
}

// parseInstrument decodes one instrument record. data must span exactly the
// record, as returned by instrumentSize.
func parseInstrument(data []byte) (*Instrument, error) {
	size, err := instrumentSize(data)
	if err != nil {
		return nil, err
	}
	if len(data) < size {
		return nil, formatErrorf("instrument data truncated: need %d bytes, got %d", size, len(data))
	}
	inst := &Instrument{name: readString(data, 4, 22)}
	numSamples := int(data[27])
	if numSamples == 0 {
		return inst, nil
	}
	if numSamples > maxSamples {
		return nil, formatErrorf("instrument has %d samples, at most %d allowed", numSamples, maxSamples)
	}
	headerLen := readU32(data, 0)
	if headerLen < instrumentHeaderFull {
		return nil, formatErrorf("instrument header length %d too small for %d samples", headerLen, numSamples)
	}
	inst.sampleMap = append([]byte(nil), data[33:33+sampleMapSize]...)
	inst.volume = parseEnvelope(data, 129, 225, 227, 233)
	inst.panning = parseEnvelope(data, 177, 226, 230, 234)
	inst.vibrato = Vibrato{Type: data[235], Sweep: data[236], Depth: data[237], Rate: data[238]}
	inst.fadeout = uint16(readU16(data, 239))
	inst.samples = make([]Sample, numSamples)
	dataOffset := headerLen + numSamples*sampleHeaderSize
	for s := range inst.samples {
		smp := &inst.samples[s]
		parseSampleHeader(smp, data[headerLen+s*sampleHeaderSize:])
		smp.data = append([]byte(nil), data[dataOffset:dataOffset+smp.length]...)
		dataOffset += smp.length
	}
	return inst, nil
}

// parseEnvelope reads an envelope from the instrument header. pointsAt is
// the offset of the 12 point pairs, countAt of the point count, indicesAt of
// the sustain/loop start/loop end triple and typeAt of the type bits.
func parseEnvelope(data []byte, pointsAt, countAt, indicesAt, typeAt int) Envelope {
	count := min(int(data[countAt]), maxEnvelopePoints)
	e := Envelope{
		sustain:   data[indicesAt],
		loopStart: data[indicesAt+1],
		loopEnd:   data[indicesAt+2],
		flags:     data[typeAt],
	}
	if count > 0 {
		e.points = make([]EnvelopePoint, count)
		for i := range e.points {
			e.points[i] = EnvelopePoint{
				X: uint16(readU16(data, pointsAt+4*i)),
				Y: uint16(readU16(data, pointsAt+4*i+2)),
			}
		}
	}
	return e
}
