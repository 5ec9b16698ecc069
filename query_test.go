package xmkit_test

import (
	"errors"
	"testing"

	"github.com/xmkit/xmkit"
	"github.com/xmkit/xmkit/internal/xmtest"
)

func parseTrack(t *testing.T, rows int, cells ...[]byte) *xmkit.Track {
	t.Helper()
	b := xmtest.NewBuilder(1)
	b.Patterns = [][]byte{xmtest.Pattern(rows, cells...)}
	m, err := xmkit.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m.Pattern(0).Track(0)
}

func TestNoteAndInstrumentCarry(t *testing.T) {
	tr := parseTrack(t, 6,
		xmtest.Empty(),
		xmtest.Packed(0x03, 49, 2),
		xmtest.Empty(),
		xmtest.Packed(0x01, 97),
		xmtest.Packed(0x02, 5),
		xmtest.Empty(),
	)
	expectedNotes := []byte{0, 49, 49, 97, 97, 97}
	expectedInstruments := []byte{0, 2, 2, 2, 5, 5}
	for r := 0; r < tr.Rows(); r++ {
		n, err := tr.Note(r)
		if err != nil {
			t.Fatalf("Note(%d) failed: %v", r, err)
		}
		if n != expectedNotes[r] {
			t.Errorf("Note(%d) = %d, expected %d", r, n, expectedNotes[r])
		}
		if raw, ok := tr.NoteRaw(r).Unpack(); ok && raw != n {
			t.Errorf("Note(%d) = %d differs from the coded note %d", r, n, raw)
		}
		i, err := tr.Instrument(r)
		if err != nil {
			t.Fatalf("Instrument(%d) failed: %v", r, err)
		}
		if i != expectedInstruments[r] {
			t.Errorf("Instrument(%d) = %d, expected %d", r, i, expectedInstruments[r])
		}
	}
}

func TestDefaultsWithNothingSet(t *testing.T) {
	tr := parseTrack(t, 4, xmtest.Empty(), xmtest.Empty(), xmtest.Empty(), xmtest.Empty())
	for r := 0; r < 4; r++ {
		n, _ := tr.Note(r)
		i, _ := tr.Instrument(r)
		v, _ := tr.Volume(r)
		if n != 0 || i != 0 || v != 0x40 {
			t.Errorf("row %d: got note %d instrument %d volume %#x, expected 0, 0, 0x40", r, n, i, v)
		}
	}
}

func TestVolume(t *testing.T) {
	tr := parseTrack(t, 8,
		xmtest.Packed(0x04, 0x30),     // volume 0x20
		xmtest.Empty(),                // carried
		xmtest.Packed(0x04, 0x60),     // volume slide, not a set
		xmtest.Packed(0x05, 49, 0x50), // note with volume 0x40 on the same row
		xmtest.Packed(0x01, 50),       // new note, nothing set since
		xmtest.Packed(0x04, 0x10),     // volume 0
		xmtest.Packed(0x01, 97),       // key off does not trigger a note
		xmtest.Packed(0x05, 51, 0x0F), // note, 0x0F is not a volume
	)
	expected := []byte{0x20, 0x20, 0x20, 0x40, 0x40, 0x00, 0x00, 0x40}
	for r, e := range expected {
		v, err := tr.Volume(r)
		if err != nil {
			t.Fatalf("Volume(%d) failed: %v", r, err)
		}
		if v != e {
			t.Errorf("Volume(%d) = %#x, expected %#x", r, v, e)
		}
	}
}

func TestFxMemory(t *testing.T) {
	tr := parseTrack(t, 8,
		xmtest.Fx(0x04, 0x37),               // vibrato 37
		xmtest.Empty(),                      // carried
		xmtest.Fx(0x04, 0x00),               // 400 recalls 37
		xmtest.Fx(0x0A, 0x05),               // other command does not reset a memory effect
		xmtest.Packed(0x01, 49),             // note trigger resets
		xmtest.Fx(0x04, 0x00),               // 400 after reset recalls the default
		xmtest.Fx(0x04, 0x12),               // new value
		xmtest.Packed(0x19, 49, 0x04, 0x00), // note + 400 on the same row
	)
	expected := []byte{0x37, 0x37, 0x37, 0x37, 0x00, 0x00, 0x12, 0x00}
	for r, e := range expected {
		v, err := tr.Fx(xmkit.EffectVibrato, r)
		if err != nil {
			t.Fatalf("Fx(vibrato, %d) failed: %v", r, err)
		}
		if v != e {
			t.Errorf("Fx(vibrato, %d) = %#x, expected %#x", r, v, e)
		}
	}
}

func TestFxWithoutMemory(t *testing.T) {
	tr := parseTrack(t, 6,
		xmtest.Fx(0x08, 0x80), // set panning 80
		xmtest.Empty(),        // no command: carried
		xmtest.Fx(0x08, 0x00), // zero parameter is a value
		xmtest.Fx(0x08, 0x40),
		xmtest.Fx(0x0A, 0x01), // other command resets
		xmtest.Fx(0x08, 0xC0),
	)
	expected := []byte{0x80, 0x80, 0x00, 0x40, 0x00, 0xC0}
	for r, e := range expected {
		v, err := tr.Fx(xmkit.EffectSetPanning, r)
		if err != nil {
			t.Fatalf("Fx(panning, %d) failed: %v", r, err)
		}
		if v != e {
			t.Errorf("Fx(panning, %d) = %#x, expected %#x", r, v, e)
		}
	}
}

func TestFxMemoryProperty(t *testing.T) {
	// A nonzero value set at row A holds at every later row B as long as
	// nothing between touches the effect or triggers a note.
	tr := parseTrack(t, 16, append([][]byte{xmtest.Fx(0x01, 0x2F)}, xmtest.Repeat(xmtest.Empty(), 15)...)...)
	for r := 0; r < 16; r++ {
		if v, _ := tr.Fx(xmkit.EffectPortamentoUp, r); v != 0x2F {
			t.Fatalf("Fx(portamento up, %d) = %#x, expected 0x2f", r, v)
		}
	}
}

func TestFxFinetuneDefault(t *testing.T) {
	tr := parseTrack(t, 3, xmtest.Fx(0x0E, 0x53), xmtest.Packed(0x01, 49), xmtest.Empty())
	expected := []byte{3, 8, 8}
	for r, e := range expected {
		if v, _ := tr.Fx(xmkit.EffectSetFinetune, r); v != e {
			t.Errorf("Fx(E5, %d) = %d, expected %d", r, v, e)
		}
	}
}

func TestQueryErrors(t *testing.T) {
	tr := parseTrack(t, 4, xmtest.Empty(), xmtest.Empty(), xmtest.Empty(), xmtest.Empty())
	queries := map[string]func(int) (byte, error){
		"note":       tr.Note,
		"instrument": tr.Instrument,
		"volume":     tr.Volume,
		"fx":         func(r int) (byte, error) { return tr.Fx(xmkit.EffectVibrato, r) },
	}
	for name, q := range queries {
		for _, row := range []int{4, -1, 100} {
			_, err := q(row)
			var re *xmkit.RowOutOfRangeError
			if !errors.As(err, &re) || !errors.Is(err, xmkit.ErrRowOutOfRange) {
				t.Errorf("%s(%d): expected RowOutOfRangeError, got %v", name, row, err)
			}
		}
		if _, err := q(3); err != nil {
			t.Errorf("%s(3) failed: %v", name, err)
		}
	}
	if _, err := tr.Fx(xmkit.Effect(-1), 0); !errors.Is(err, xmkit.ErrInvalidEffect) {
		t.Errorf("expected ErrInvalidEffect, got %v", err)
	}
	if _, err := tr.Fx(xmkit.Effect(1000), 0); !errors.Is(err, xmkit.ErrInvalidEffect) {
		t.Errorf("expected ErrInvalidEffect, got %v", err)
	}
	// the row is still usable after failed queries
	if n, err := tr.Note(0); err != nil || n != 0 {
		t.Errorf("Note(0) = %v, %v after errors", n, err)
	}
}

func TestBPMAndTempo(t *testing.T) {
	b := xmtest.NewBuilder(3)
	b.Tempo = 6
	b.BPM = 125
	cells := xmtest.Repeat(xmtest.Empty(), 3*8)
	cells[3*3+2] = xmtest.Fx(0x0F, 0x7D)
	cells[5*3+0] = xmtest.Fx(0x0F, 0x04)
	b.Patterns = [][]byte{xmtest.Pattern(8, cells...)}
	m, err := xmkit.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	p := m.Pattern(0)
	expectedBPM := []byte{125, 125, 125, 0x7D, 0x7D, 0x7D, 0x7D, 0x7D}
	expectedTempo := []byte{6, 6, 6, 6, 6, 4, 4, 4}
	for r := 0; r < 8; r++ {
		bpm, err := p.BPM(m, r)
		if err != nil {
			t.Fatalf("BPM(%d) failed: %v", r, err)
		}
		tempo, err := p.Tempo(m, r)
		if err != nil {
			t.Fatalf("Tempo(%d) failed: %v", r, err)
		}
		if bpm != expectedBPM[r] || tempo != expectedTempo[r] {
			t.Errorf("row %d: got bpm %#x tempo %d, expected %#x and %d", r, bpm, tempo, expectedBPM[r], expectedTempo[r])
		}
	}
	if _, err := p.BPM(m, 8); !errors.Is(err, xmkit.ErrRowOutOfRange) {
		t.Errorf("BPM(8): expected ErrRowOutOfRange, got %v", err)
	}
	if _, err := p.Tempo(m, 8); !errors.Is(err, xmkit.ErrRowOutOfRange) {
		t.Errorf("Tempo(8): expected ErrRowOutOfRange, got %v", err)
	}
}

func TestSpeedLastChannelWinsWithinRow(t *testing.T) {
	b := xmtest.NewBuilder(2)
	b.Patterns = [][]byte{xmtest.Pattern(1, xmtest.Fx(0x0F, 0x90), xmtest.Fx(0x0F, 0xA0))}
	m, err := xmkit.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if bpm, _ := m.Pattern(0).BPM(m, 0); bpm != 0xA0 {
		t.Errorf("got bpm %#x, expected 0xa0", bpm)
	}
}

func TestParseEffect(t *testing.T) {
	for _, e := range xmkit.Effects() {
		got, err := xmkit.ParseEffect(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEffect(%q) = %v, %v; expected %v", e.String(), got, err, e)
		}
	}
	if e, err := xmkit.ParseEffect("ea"); err != nil || e != xmkit.EffectFineVolumeSlideUp {
		t.Errorf("ParseEffect is not case-insensitive: %v, %v", e, err)
	}
	if _, err := xmkit.ParseEffect("Z"); !errors.Is(err, xmkit.ErrInvalidEffect) {
		t.Errorf("expected ErrInvalidEffect, got %v", err)
	}
}

func TestSpeedAt(t *testing.T) {
	b := xmtest.NewBuilder(1)
	b.Patterns = [][]byte{xmtest.Pattern(3, xmtest.Empty(), xmtest.Fx(0x0F, 0x03), xmtest.Empty())}
	m, err := xmkit.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	p := m.Pattern(0)
	bpm, tempo, err := p.SpeedAt(0)
	if err != nil || !bpm.Empty() || !tempo.Empty() {
		t.Fatalf("row 0: expected nothing set, got %v %v %v", bpm, tempo, err)
	}
	bpm, tempo, _ = p.SpeedAt(2)
	if !bpm.Empty() || !tempo.Equals(3) {
		t.Fatalf("row 2: expected tempo 3 only, got %v %v", bpm, tempo)
	}
}

func TestFxNibbleSplitFamilies(t *testing.T) {
	tr := parseTrack(t, 12,
		xmtest.Fx(0x0E, 0x13),   // E13
		xmtest.Fx(0x0E, 0x25),   // E25 leaves E1 alone
		xmtest.Fx(0x0E, 0x10),   // E10 recalls both
		xmtest.Fx(0x0E, 0xA4),   // EA4
		xmtest.Fx(0x0E, 0xA0),   // EA0 recalls 4
		xmtest.Fx(0x0E, 0xC2),   // note cut has no memory
		xmtest.Fx(0x0E, 0x32),   // another E sub-effect resets it
		xmtest.Fx(0x21, 0x13),   // X13
		xmtest.Fx(0x21, 0x25),   // X25
		xmtest.Fx(0x21, 0x10),   // X10 recalls
		xmtest.Fx(0x21, 0x34),   // X3 does not exist
		xmtest.Packed(0x01, 49), // note trigger resets everything
	)
	for _, c := range []struct {
		effect   xmkit.Effect
		expected []byte
	}{
		{xmkit.EffectFinePortamentoUp, []byte{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 0}},
		{xmkit.EffectFinePortamentoDown, []byte{0, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 0}},
		{xmkit.EffectFineVolumeSlideUp, []byte{0, 0, 0, 4, 4, 4, 4, 4, 4, 4, 4, 0}},
		{xmkit.EffectNoteCut, []byte{0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0}},
		{xmkit.EffectGlissandoControl, []byte{0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0}},
		{xmkit.EffectExtraFinePortamentoUp, []byte{0, 0, 0, 0, 0, 0, 0, 3, 3, 3, 3, 0}},
		{xmkit.EffectExtraFinePortamentoDown, []byte{0, 0, 0, 0, 0, 0, 0, 0, 5, 5, 5, 0}},
	} {
		for r, e := range c.expected {
			v, err := tr.Fx(c.effect, r)
			if err != nil {
				t.Fatalf("Fx(%v, %d) failed: %v", c.effect, r, err)
			}
			if v != e {
				t.Errorf("Fx(%v, %d) = %d, expected %d", c.effect, r, v, e)
			}
		}
	}
	if e, v, ok := xmkit.EffectOf(0x21, 0x25); !ok || e != xmkit.EffectExtraFinePortamentoDown || v != 5 {
		t.Errorf("EffectOf(0x21, 0x25) = %v, %d, %v", e, v, ok)
	}
	if _, _, ok := xmkit.EffectOf(0x21, 0x34); ok {
		t.Errorf("expected EffectOf(0x21, 0x34) to decode no effect")
	}
}
