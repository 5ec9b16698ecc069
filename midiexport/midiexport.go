// Package midiexport converts the note stream of a module into a Standard
// MIDI File. Only notes, instruments and speed are carried over; effects
// and samples have no MIDI counterpart.
package midiexport

import (
	"errors"
	"fmt"

	"github.com/xmkit/xmkit"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Options for Song. The zero value uses the defaults.
type Options struct {
	// RowsPerBeat is the number of pattern rows in a quarter note. Defaults
	// to 4.
	RowsPerBeat int
	// Resolution is the number of MIDI ticks in a quarter note. Defaults to
	// 96. It must be divisible by RowsPerBeat.
	Resolution int
}

const (
	defaultRowsPerBeat = 4
	defaultResolution  = 96
	// XM note 1 is C-0, which is MIDI key 12
	keyOffset    = 11
	maxVelocity  = 127
	xmMaxVolume  = 0x40
	midiChannels = 16
)

// Song converts the module into a format 1 MIDI file: a conductor track with
// the tempo changes, followed by one track per channel. The order list is
// played once from the start; order entries that refer to missing patterns
// are skipped. Channels past 16 wrap around the MIDI channels.
func Song(m *xmkit.Module, opts Options) (*smf.SMF, error) {
	if opts.RowsPerBeat == 0 {
		opts.RowsPerBeat = defaultRowsPerBeat
	}
	if opts.Resolution == 0 {
		opts.Resolution = defaultResolution
	}
	if opts.RowsPerBeat < 0 || opts.Resolution <= 0 || opts.Resolution > 0x7FFF || opts.Resolution%opts.RowsPerBeat != 0 {
		return nil, fmt.Errorf("resolution %d is not a positive multiple of %d rows per beat", opts.Resolution, opts.RowsPerBeat)
	}
	ticksPerRow := uint32(opts.Resolution / opts.RowsPerBeat)
	conductor := &trackWriter{}
	conductor.add(0, smf.MetaTrackSequenceName(m.Name()))
	channels := make([]channelWriter, m.Channels())
	for ch := range channels {
		channels[ch] = channelWriter{channel: uint8(ch % midiChannels), key: -1}
		channels[ch].add(0, smf.MetaTrackSequenceName(fmt.Sprintf("Channel %d", ch+1)))
	}
	bpm, tempo := m.DefaultBPM(), m.DefaultTempo()
	var lastQPM float64
	var tick uint32
	for pos := 0; pos < m.Len(); pos++ {
		p, ok := m.OrderPattern(pos)
		if !ok {
			continue
		}
		for r := 0; r < p.Rows(); r++ {
			b, t, err := p.SpeedAt(r)
			if err != nil {
				return nil, err
			}
			bpm, tempo = b.Or(bpm), t.Or(tempo)
			if qpm := quarterNotesPerMinute(bpm, tempo, opts.RowsPerBeat); qpm > 0 && qpm != lastQPM {
				conductor.add(tick, smf.MetaTempo(qpm))
				lastQPM = qpm
			}
			for ch := range channels {
				if err := channels[ch].row(p.Track(ch), r, tick); err != nil {
					return nil, fmt.Errorf("order %d row %d channel %d: %w", pos, r, ch, err)
				}
			}
			tick += ticksPerRow
		}
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.Resolution)
	conductor.track.Close(tick - conductor.last)
	if err := s.Add(conductor.track); err != nil {
		return nil, err
	}
	for ch := range channels {
		channels[ch].release(tick)
		channels[ch].track.Close(tick - channels[ch].last)
		if err := s.Add(channels[ch].track); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// quarterNotesPerMinute converts the tracker speed into a MIDI tempo. At
// tempo 6 and RowsPerBeat 4 the result equals the BPM.
func quarterNotesPerMinute(bpm, tempo byte, rowsPerBeat int) float64 {
	if tempo == 0 || bpm == 0 {
		return 0
	}
	// one tick lasts 2.5/bpm seconds
	rowsPerMinute := 60 / (2.5 / float64(bpm) * float64(tempo))
	return rowsPerMinute / float64(rowsPerBeat)
}

type trackWriter struct {
	track smf.Track
	last  uint32
}

func (w *trackWriter) add(tick uint32, msg []byte) {
	w.track.Add(tick-w.last, msg)
	w.last = tick
}

type channelWriter struct {
	trackWriter
	channel uint8
	key     int // sounding key, -1 if none
	program int // last program change sent, 0 if none
}

var errNilTrack = errors.New("pattern has fewer channels than the module")

func (w *channelWriter) row(t *xmkit.Track, row int, tick uint32) error {
	if t == nil {
		return errNilTrack
	}
	n, ok := t.NoteRaw(row).Unpack()
	if !ok {
		return nil
	}
	note := xmkit.Note(n)
	if note == xmkit.NoteKeyOff {
		w.release(tick)
		return nil
	}
	if !note.Triggers() {
		return nil
	}
	w.release(tick)
	inst, err := t.Instrument(row)
	if err != nil {
		return err
	}
	if inst > 0 && int(inst) != w.program {
		w.add(tick, midi.ProgramChange(w.channel, (inst-1)&0x7F))
		w.program = int(inst)
	}
	vol, err := t.Volume(row)
	if err != nil {
		return err
	}
	w.key = int(note) + keyOffset
	w.add(tick, midi.NoteOn(w.channel, uint8(w.key), velocity(vol)))
	return nil
}

func (w *channelWriter) release(tick uint32) {
	if w.key < 0 {
		return
	}
	w.add(tick, midi.NoteOff(w.channel, uint8(w.key)))
	w.key = -1
}

// velocity maps the volume 0..0x40 to 1..127; a note on with velocity 0
// would be read as a note off.
func velocity(vol byte) uint8 {
	v := int(vol) * maxVelocity / xmMaxVolume
	if v < 1 {
		v = 1
	}
	if v > maxVelocity {
		v = maxVelocity
	}
	return uint8(v)
}
