package summary_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/xmkit/xmkit"
	"github.com/xmkit/xmkit/internal/xmtest"
	"github.com/xmkit/xmkit/summary"
	"gopkg.in/yaml.v3"
)

func testModule(t *testing.T) *xmkit.Module {
	t.Helper()
	b := xmtest.NewBuilder(2)
	b.Name = "summary test"
	b.Order = []byte{0, 0}
	b.Patterns = [][]byte{
		xmtest.Pattern(2,
			xmtest.Full(49, 1, 0x40, 0x04, 0x37), xmtest.Packed(0x01, 97),
			xmtest.Fx(0x0E, 0x13), xmtest.Full(50, 1, 0, 0, 0),
		),
		xmtest.Pattern(4),
	}
	inst := xmtest.Instrument{
		Name:    "bass",
		Volume:  xmtest.Envelope{Points: [][2]uint16{{0, 64}, {8, 0}}, Type: 0x1},
		Fadeout: 256,
		Samples: []xmtest.Sample{{Name: "saw", LoopLen: 4, Volume: 64, Flags: 0x10 | 0x02, Panning: 0x80, RelNote: 12, Data: make([]byte, 8)}},
	}
	b.Instruments = [][]byte{inst.Bytes(), xmtest.EmptyInstrument("empty")}
	m, err := xmkit.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

func TestNew(t *testing.T) {
	s := summary.New(testModule(t))
	if s.Name != "summary test" || s.Channels != 2 || s.Tempo != 6 || s.BPM != 125 {
		t.Fatalf("header mismatch: %+v", s)
	}
	if s.Rows != 4 || !reflect.DeepEqual(s.Order, []int{0, 0}) {
		t.Errorf("got %d rows and order %v, expected 4 and [0 0]", s.Rows, s.Order)
	}
	expectedPatterns := []summary.Pattern{
		{Index: 0, Rows: 2, Used: true, Notes: 2, Effects: map[string]int{"4": 1, "E1": 1}},
		{Index: 1, Rows: 4},
	}
	if !reflect.DeepEqual(s.Patterns, expectedPatterns) {
		t.Errorf("got patterns %+v, expected %+v", s.Patterns, expectedPatterns)
	}
	expectedInstruments := []summary.Instrument{
		{
			Index:        0,
			Name:         "bass",
			VolumePoints: 2,
			Fadeout:      256,
			Samples: []summary.Sample{
				{Name: "saw", Frames: 4, Bits: 16, Loop: "forward", LoopLength: 4, Volume: 64, Panning: 0x80, RelativeNote: 12},
			},
		},
		{Index: 1, Name: "empty"},
	}
	if !reflect.DeepEqual(s.Instruments, expectedInstruments) {
		t.Errorf("got instruments %+v, expected %+v", s.Instruments, expectedInstruments)
	}
}

func TestYAMLAndJSON(t *testing.T) {
	s := summary.New(testModule(t))
	out, err := s.YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	var fromYAML summary.Summary
	if err := yaml.Unmarshal(out, &fromYAML); err != nil {
		t.Fatalf("could not read back YAML: %v", err)
	}
	if !reflect.DeepEqual(fromYAML, s) {
		t.Errorf("YAML round trip mismatch:\n%s", out)
	}
	if !strings.Contains(string(out), "order: [0, 0]") {
		t.Errorf("expected a flow style order list:\n%s", out)
	}
	out, err = s.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	var fromJSON summary.Summary
	if err := json.Unmarshal(out, &fromJSON); err != nil {
		t.Fatalf("could not read back JSON: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, s) {
		t.Errorf("JSON round trip mismatch:\n%s", out)
	}
}

func TestExecute(t *testing.T) {
	s := summary.New(testModule(t))
	var buf bytes.Buffer
	tmpl := `{{ .Name | upper }} {{ .BPM }}bpm{{ range .Instruments }} {{ .Name | quote }}{{ end }}`
	if err := summary.Execute(&buf, tmpl, s); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got, expected := buf.String(), `SUMMARY TEST 125bpm "bass" "empty"`; got != expected {
		t.Errorf("got %q, expected %q", got, expected)
	}
	if err := summary.Execute(&buf, "{{ .Missing", s); err == nil {
		t.Errorf("expected an error for a malformed template")
	}
}
