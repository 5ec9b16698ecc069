// Package render presents modules for humans: pattern grids for the
// terminal, and level statistics and waveform images of samples.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xmkit/xmkit"
)

var (
	rowNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666"))
	beatStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ddd"))
	cellStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaa"))
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	headerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7ad")).Bold(true)
)

// Options control how Pattern renders.
type Options struct {
	// Effective shows the note, instrument and volume in effect on every
	// row, as computed by the query engine, instead of the coded cells.
	Effective bool
	// Cursor is the row to highlight when ShowCursor is set.
	Cursor     int
	ShowCursor bool
	// BeatRows highlights every BeatRows'th row; 0 disables highlighting.
	BeatRows int
	// Speed appends the BPM and tempo in effect to every row.
	Speed bool
}

const commandDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CommandString formats an effect command and parameter the way trackers
// show it, e.g. "F06" or "G40".
func CommandString(command, param byte) string {
	if int(command) >= len(commandDigits) {
		return fmt.Sprintf("?%02X", param)
	}
	return fmt.Sprintf("%c%02X", commandDigits[command], param)
}

// Pattern renders the pattern as a grid of rows, one channel per column.
// m supplies the default speed when opts.Speed is set.
func Pattern(m *xmkit.Module, p *xmkit.Pattern, opts Options) (string, error) {
	var b strings.Builder
	header := []string{"   "}
	for ch := 0; ch < p.Channels(); ch++ {
		header = append(header, fmt.Sprintf("%-13s", fmt.Sprintf("ch%d", ch+1)))
	}
	if opts.Speed {
		header = append(header, "bpm/tpo")
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteByte('\n')
	for r := 0; r < p.Rows(); r++ {
		cells := []string{rowNumberStyle.Render(fmt.Sprintf("%02X ", r))}
		for ch := 0; ch < p.Channels(); ch++ {
			var cell string
			var err error
			if opts.Effective {
				cell, err = effectiveCell(p.Track(ch), r)
				if err != nil {
					return "", err
				}
			} else {
				cell = rawCell(p.Track(ch), r)
			}
			cells = append(cells, cell)
		}
		if opts.Speed {
			bpm, err := p.BPM(m, r)
			if err != nil {
				return "", err
			}
			tempo, err := p.Tempo(m, r)
			if err != nil {
				return "", err
			}
			cells = append(cells, cellStyle.Render(fmt.Sprintf("%3d/%02d", bpm, tempo)))
		}
		line := strings.Join(cells, " ")
		switch {
		case opts.ShowCursor && r == opts.Cursor:
			line = cursorStyle.Render(line)
		case opts.BeatRows > 0 && r%opts.BeatRows == 0:
			line = beatStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func rawCell(t *xmkit.Track, row int) string {
	field := func(o xmkit.OptionalByte, format func(byte) string, blank string) string {
		if v, ok := o.Unpack(); ok {
			return cellStyle.Render(format(v))
		}
		return emptyStyle.Render(blank)
	}
	hex := func(v byte) string { return fmt.Sprintf("%02X", v) }
	note := field(t.NoteRaw(row), func(v byte) string { return xmkit.Note(v).String() }, "...")
	effect := emptyStyle.Render("...")
	if command, param, ok := t.Effect(row); ok {
		effect = cellStyle.Render(CommandString(command, param))
	}
	return strings.Join([]string{
		note,
		field(t.InstrumentRaw(row), hex, ".."),
		field(t.VolumeRaw(row), hex, ".."),
		effect,
	}, " ")
}

func effectiveCell(t *xmkit.Track, row int) (string, error) {
	note, err := t.Note(row)
	if err != nil {
		return "", err
	}
	inst, err := t.Instrument(row)
	if err != nil {
		return "", err
	}
	vol, err := t.Volume(row)
	if err != nil {
		return "", err
	}
	style := cellStyle
	if !t.NoteRaw(row).Empty() {
		style = beatStyle
	}
	return style.Render(fmt.Sprintf("%s %02X %02X    ", xmkit.Note(note).String(), inst, vol)), nil
}
