package xmkit

import (
	"fmt"
	"strings"
)

// Effect identifies one effect class, e.g. EffectVibrato or the extended
// EffectFinePortamentoUp (E1x). Effects are used as keys for Track.Fx.
type Effect int

const (
	EffectArpeggio Effect = iota
	EffectPortamentoUp
	EffectPortamentoDown
	EffectTonePortamento
	EffectVibrato
	EffectTonePortamentoVolumeSlide
	EffectVibratoVolumeSlide
	EffectTremolo
	EffectSetPanning
	EffectSampleOffset
	EffectVolumeSlide
	EffectPositionJump
	EffectSetVolume
	EffectPatternBreak
	EffectSetSpeed
	EffectSetGlobalVolume
	EffectGlobalVolumeSlide
	EffectKeyOff
	EffectSetEnvelopePosition
	EffectPanningSlide
	EffectMultiRetrig
	EffectTremor
	EffectFinePortamentoUp
	EffectFinePortamentoDown
	EffectGlissandoControl
	EffectVibratoControl
	EffectSetFinetune
	EffectPatternLoop
	EffectTremoloControl
	EffectRetrigger
	EffectFineVolumeSlideUp
	EffectFineVolumeSlideDown
	EffectNoteCut
	EffectNoteDelay
	EffectPatternDelay
	EffectExtraFinePortamentoUp
	EffectExtraFinePortamentoDown
	numEffects
)

// Command bytes shared by several effect classes.
const (
	CommandExtended  byte = 0x0E
	CommandSetSpeed  byte = 0x0F
	CommandExtraFine byte = 0x21
)

// effectFamily tells how a command/parameter pair maps to an effect class.
type effectFamily int

const (
	familyPlain     effectFamily = iota // the command byte alone selects the class
	familyExtended                      // Exy: x selects the class, y is the value
	familyExtraFine                     // Xxy: x selects the class, y is the value
)

type effectInfo struct {
	notation string
	name     string
	family   effectFamily
	command  byte
	sub      byte
	memory   bool
	def      byte
}

var effectTable = [numEffects]effectInfo{
	EffectArpeggio:                  {"0", "arpeggio", familyPlain, 0x00, 0, false, 0},
	EffectPortamentoUp:              {"1", "portamento up", familyPlain, 0x01, 0, true, 0},
	EffectPortamentoDown:            {"2", "portamento down", familyPlain, 0x02, 0, true, 0},
	EffectTonePortamento:            {"3", "tone portamento", familyPlain, 0x03, 0, true, 0},
	EffectVibrato:                   {"4", "vibrato", familyPlain, 0x04, 0, true, 0},
	EffectTonePortamentoVolumeSlide: {"5", "tone portamento + volume slide", familyPlain, 0x05, 0, true, 0},
	EffectVibratoVolumeSlide:        {"6", "vibrato + volume slide", familyPlain, 0x06, 0, true, 0},
	EffectTremolo:                   {"7", "tremolo", familyPlain, 0x07, 0, true, 0},
	EffectSetPanning:                {"8", "set panning", familyPlain, 0x08, 0, false, 0},
	EffectSampleOffset:              {"9", "sample offset", familyPlain, 0x09, 0, true, 0},
	EffectVolumeSlide:               {"A", "volume slide", familyPlain, 0x0A, 0, true, 0},
	EffectPositionJump:              {"B", "position jump", familyPlain, 0x0B, 0, false, 0},
	EffectSetVolume:                 {"C", "set volume", familyPlain, 0x0C, 0, false, 0},
	EffectPatternBreak:              {"D", "pattern break", familyPlain, 0x0D, 0, false, 0},
	EffectSetSpeed:                  {"F", "set tempo/BPM", familyPlain, CommandSetSpeed, 0, false, 0},
	EffectSetGlobalVolume:           {"G", "set global volume", familyPlain, 0x10, 0, false, 0},
	EffectGlobalVolumeSlide:         {"H", "global volume slide", familyPlain, 0x11, 0, true, 0},
	EffectKeyOff:                    {"K", "key off", familyPlain, 0x14, 0, false, 0},
	EffectSetEnvelopePosition:       {"L", "set envelope position", familyPlain, 0x15, 0, false, 0},
	EffectPanningSlide:              {"P", "panning slide", familyPlain, 0x19, 0, true, 0},
	EffectMultiRetrig:               {"R", "multi retrig note", familyPlain, 0x1B, 0, true, 0},
	EffectTremor:                    {"T", "tremor", familyPlain, 0x1D, 0, true, 0},
	EffectFinePortamentoUp:          {"E1", "fine portamento up", familyExtended, CommandExtended, 0x1, true, 0},
	EffectFinePortamentoDown:        {"E2", "fine portamento down", familyExtended, CommandExtended, 0x2, true, 0},
	EffectGlissandoControl:          {"E3", "glissando control", familyExtended, CommandExtended, 0x3, false, 0},
	EffectVibratoControl:            {"E4", "vibrato control", familyExtended, CommandExtended, 0x4, false, 0},
	EffectSetFinetune:               {"E5", "set finetune", familyExtended, CommandExtended, 0x5, false, 8},
	EffectPatternLoop:               {"E6", "pattern loop", familyExtended, CommandExtended, 0x6, false, 0},
	EffectTremoloControl:            {"E7", "tremolo control", familyExtended, CommandExtended, 0x7, false, 0},
	EffectRetrigger:                 {"E9", "retrigger note", familyExtended, CommandExtended, 0x9, false, 0},
	EffectFineVolumeSlideUp:         {"EA", "fine volume slide up", familyExtended, CommandExtended, 0xA, true, 0},
	EffectFineVolumeSlideDown:       {"EB", "fine volume slide down", familyExtended, CommandExtended, 0xB, true, 0},
	EffectNoteCut:                   {"EC", "note cut", familyExtended, CommandExtended, 0xC, false, 0},
	EffectNoteDelay:                 {"ED", "note delay", familyExtended, CommandExtended, 0xD, false, 0},
	EffectPatternDelay:              {"EE", "pattern delay", familyExtended, CommandExtended, 0xE, false, 0},
	EffectExtraFinePortamentoUp:     {"X1", "extra fine portamento up", familyExtraFine, CommandExtraFine, 0x1, true, 0},
	EffectExtraFinePortamentoDown:   {"X2", "extra fine portamento down", familyExtraFine, CommandExtraFine, 0x2, true, 0},
}

// Effects returns every valid effect identifier, in table order.
func Effects() []Effect {
	ret := make([]Effect, numEffects)
	for i := range ret {
		ret[i] = Effect(i)
	}
	return ret
}

// ParseEffect returns the effect with the given tracker notation, e.g. "4",
// "F", "E5" or "X1". Notation is case-insensitive.
func ParseEffect(notation string) (Effect, error) {
	n := strings.ToUpper(strings.TrimSpace(notation))
	for i, info := range effectTable {
		if info.notation == n {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q: %w", notation, ErrInvalidEffect)
}

// Valid reports whether e names an existing effect class.
func (e Effect) Valid() bool {
	return e >= 0 && e < numEffects
}

// String returns the tracker notation of the effect.
func (e Effect) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Effect(%d)", int(e))
	}
	return effectTable[e].notation
}

// Name returns a human readable description of the effect.
func (e Effect) Name() string {
	if !e.Valid() {
		return ""
	}
	return effectTable[e].name
}

// Memory reports whether a zero parameter recalls the previous parameter.
func (e Effect) Memory() bool {
	return e.Valid() && effectTable[e].memory
}

// Default returns the value the effect has before it is set, and after a
// note trigger.
func (e Effect) Default() byte {
	if !e.Valid() {
		return 0
	}
	return effectTable[e].def
}

// Command returns the command byte the effect is coded with.
func (e Effect) Command() byte {
	if !e.Valid() {
		return 0
	}
	return effectTable[e].command
}

// match checks whether command/param codes this effect and returns the
// effect's value, which for the nibble-split families is the low nibble only.
func (e Effect) match(command, param byte) (byte, bool) {
	info := &effectTable[e]
	if command != info.command {
		return 0, false
	}
	switch info.family {
	case familyExtended, familyExtraFine:
		// The high nibble selects the sub-effect. Only X1y and X2y exist
		// under the extra fine command; any other x is a no-op.
		if param>>4 != info.sub {
			return 0, false
		}
		return param & 0x0F, true
	}
	return param, true
}

// EffectOf decodes a command/parameter pair into an effect class and value.
// ok is false when no known effect uses this combination.
func EffectOf(command, param byte) (e Effect, value byte, ok bool) {
	for i := Effect(0); i < numEffects; i++ {
		if v, ok := i.match(command, param); ok {
			return i, v, true
		}
	}
	return 0, 0, false
}
