// Package summary flattens a parsed module into plain data that can be
// written as YAML or JSON, or rendered through a text template.
package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/xmkit/xmkit"
	"gopkg.in/yaml.v3"
)

type (
	Summary struct {
		Name             string       `yaml:"name" json:"name"`
		Tracker          string       `yaml:"tracker" json:"tracker"`
		Channels         int          `yaml:"channels" json:"channels"`
		Tempo            int          `yaml:"tempo" json:"tempo"`
		BPM              int          `yaml:"bpm" json:"bpm"`
		AmigaFrequencies bool         `yaml:"amigafrequencies,omitempty" json:"amigafrequencies,omitempty"`
		RestartPos       int          `yaml:"restartpos,omitempty" json:"restartpos,omitempty"`
		Rows             int          `yaml:"rows" json:"rows"`
		Order            []int        `yaml:"order,flow" json:"order"`
		Patterns         []Pattern    `yaml:"patterns,omitempty" json:"patterns,omitempty"`
		Instruments      []Instrument `yaml:"instruments,omitempty" json:"instruments,omitempty"`
	}

	Pattern struct {
		Index   int            `yaml:"index" json:"index"`
		Rows    int            `yaml:"rows" json:"rows"`
		Used    bool           `yaml:"used" json:"used"`
		Notes   int            `yaml:"notes" json:"notes"` // note triggers over all channels
		Effects map[string]int `yaml:"effects,omitempty" json:"effects,omitempty"`
	}

	Instrument struct {
		Index         int      `yaml:"index" json:"index"`
		Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
		VolumePoints  int      `yaml:"volumepoints,omitempty" json:"volumepoints,omitempty"`
		PanningPoints int      `yaml:"panningpoints,omitempty" json:"panningpoints,omitempty"`
		Fadeout       int      `yaml:"fadeout,omitempty" json:"fadeout,omitempty"`
		Samples       []Sample `yaml:"samples,omitempty" json:"samples,omitempty"`
	}

	Sample struct {
		Name         string `yaml:"name,omitempty" json:"name,omitempty"`
		Frames       int    `yaml:"frames" json:"frames"`
		Bits         int    `yaml:"bits" json:"bits"`
		Loop         string `yaml:"loop" json:"loop"`
		LoopStart    int    `yaml:"loopstart,omitempty" json:"loopstart,omitempty"`
		LoopLength   int    `yaml:"looplength,omitempty" json:"looplength,omitempty"`
		Volume       int    `yaml:"volume" json:"volume"`
		Finetune     int    `yaml:"finetune,omitempty" json:"finetune,omitempty"`
		Panning      int    `yaml:"panning" json:"panning"`
		RelativeNote int    `yaml:"relativenote,omitempty" json:"relativenote,omitempty"`
	}
)

var loopNames = map[byte]string{
	xmkit.SampleLoopNone:     "none",
	xmkit.SampleLoopForward:  "forward",
	xmkit.SampleLoopPingPong: "pingpong",
}

// New summarizes the module m.
func New(m *xmkit.Module) Summary {
	s := Summary{
		Name:             m.Name(),
		Tracker:          m.TrackerName(),
		Channels:         m.Channels(),
		Tempo:            int(m.DefaultTempo()),
		BPM:              int(m.DefaultBPM()),
		AmigaFrequencies: m.AmigaFrequencyTable(),
		RestartPos:       m.RestartPos(),
		Rows:             m.LengthInRows(),
	}
	order := m.Order()
	s.Order = make([]int, len(order))
	for i := range order {
		s.Order[i] = order.Get(i)
	}
	for i := 0; i < m.NumPatterns(); i++ {
		s.Patterns = append(s.Patterns, newPattern(m, i))
	}
	for i := 0; i < m.NumInstruments(); i++ {
		s.Instruments = append(s.Instruments, newInstrument(i, m.Instrument(i)))
	}
	return s
}

func newPattern(m *xmkit.Module, index int) Pattern {
	p := m.Pattern(index)
	ret := Pattern{Index: index, Rows: p.Rows(), Used: m.PatternUsed(index)}
	for ch := 0; ch < p.Channels(); ch++ {
		t := p.Track(ch)
		for r := 0; r < t.Rows(); r++ {
			if n, ok := t.NoteRaw(r).Unpack(); ok && xmkit.Note(n).Triggers() {
				ret.Notes++
			}
			command, param, ok := t.Effect(r)
			if !ok || command == 0 && param == 0 {
				continue // 000 is an empty effect column
			}
			if e, _, ok := xmkit.EffectOf(command, param); ok {
				if ret.Effects == nil {
					ret.Effects = map[string]int{}
				}
				ret.Effects[e.String()]++
			}
		}
	}
	return ret
}

func newInstrument(index int, inst *xmkit.Instrument) Instrument {
	ret := Instrument{Index: index, Name: inst.Name()}
	if env, ok := inst.VolumeEnvelope(); ok {
		points, _ := env.Points()
		ret.VolumePoints = len(points)
	}
	if env, ok := inst.PanningEnvelope(); ok {
		points, _ := env.Points()
		ret.PanningPoints = len(points)
	}
	if f, ok := inst.Fadeout(); ok {
		ret.Fadeout = int(f)
	}
	for i := 0; i < inst.NumSamples(); i++ {
		s := inst.Sample(i)
		bits := 8
		if s.Is16Bit() {
			bits = 16
		}
		ret.Samples = append(ret.Samples, Sample{
			Name:         s.Name(),
			Frames:       s.Len(),
			Bits:         bits,
			Loop:         loopNames[s.LoopType()],
			LoopStart:    s.LoopStart(),
			LoopLength:   s.LoopLength(),
			Volume:       int(s.Volume()),
			Finetune:     int(s.Finetune()),
			Panning:      int(s.Panning()),
			RelativeNote: int(s.RelativeNote()),
		})
	}
	return ret
}

func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Execute renders the summary with a text template. The sprig functions
// are available to the template.
func Execute(w io.Writer, text string, s Summary) error {
	tmpl, err := template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("could not parse template: %v", err)
	}
	result := bytes.NewBufferString("")
	if err := tmpl.Execute(result, s); err != nil {
		return fmt.Errorf("could not execute template: %v", err)
	}
	_, err = io.Copy(w, result)
	return err
}
