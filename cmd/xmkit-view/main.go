package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xmkit/xmkit"
	"github.com/xmkit/xmkit/render"
	"github.com/xmkit/xmkit/version"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7ad")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	fxStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#fc6"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f66"))
)

type model struct {
	module    *xmkit.Module
	orderPos  int
	row       int
	channel   int
	effective bool
	height    int
	quitting  bool
}

func newModel(m *xmkit.Module) model {
	ret := model{module: m, height: 24}
	ret.orderPos = ret.nextPos(-1, 1)
	return ret
}

// nextPos returns the next order position from pos in direction dir that
// plays an existing pattern, or pos if there is none.
func (m model) nextPos(pos, dir int) int {
	for p := pos + dir; p >= 0 && p < m.module.Len(); p += dir {
		if _, ok := m.module.OrderPattern(p); ok {
			return p
		}
	}
	return pos
}

func (m model) pattern() *xmkit.Pattern {
	p, _ := m.module.OrderPattern(m.orderPos)
	return p
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	p := m.pattern()
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "k", "up":
			if m.row > 0 {
				m.row--
			} else if prev := m.nextPos(m.orderPos, -1); prev != m.orderPos {
				m.orderPos = prev
				m.row = m.pattern().Rows() - 1
			}
		case "j", "down":
			if p != nil && m.row < p.Rows()-1 {
				m.row++
			} else if next := m.nextPos(m.orderPos, 1); next != m.orderPos {
				m.orderPos = next
				m.row = 0
			}
		case "pgup":
			m.row = max(m.row-16, 0)
		case "pgdown":
			if p != nil {
				m.row = min(m.row+16, p.Rows()-1)
			}
		case "[", "K":
			m.orderPos = m.nextPos(m.orderPos, -1)
			m.row = 0
		case "]", "J":
			m.orderPos = m.nextPos(m.orderPos, 1)
			m.row = 0
		case "h", "left":
			if m.channel > 0 {
				m.channel--
			}
		case "l", "right":
			if m.channel < m.module.Channels()-1 {
				m.channel++
			}
		case "e":
			m.effective = !m.effective
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	p := m.pattern()
	if p == nil {
		return errorStyle.Render("the order list plays no existing pattern") + "\n"
	}
	header := titleStyle.Render(fmt.Sprintf("%s  order %02X/%02X  pattern %02X  row %02X  ch%d",
		m.module.Name(), m.orderPos, m.module.Len(), m.module.Order().Get(m.orderPos), m.row, m.channel+1))
	grid, err := render.Pattern(m.module, p, render.Options{
		Effective:  m.effective,
		Speed:      true,
		Cursor:     m.row,
		ShowCursor: true,
		BeatRows:   4,
	})
	if err != nil {
		return errorStyle.Render(err.Error()) + "\n"
	}
	lines := strings.Split(strings.TrimSuffix(grid, "\n"), "\n")
	visible := max(m.height-5, 3)
	// keep the column header and scroll the rows around the cursor
	rows := lines[1:]
	start := max(min(m.row-visible/2, len(rows)-visible), 0)
	end := min(start+visible, len(rows))
	view := append([]string{lines[0]}, rows[start:end]...)
	help := statusStyle.Render("j/k:row  [/]:pattern  h/l:channel  e:effective  q:quit")
	return strings.Join([]string{header, strings.Join(view, "\n"), m.effects(p), help}, "\n") + "\n"
}

// effects lists the effects of the selected channel that are not at their
// default value on the cursor row.
func (m model) effects(p *xmkit.Pattern) string {
	t := p.Track(m.channel)
	if t == nil {
		return ""
	}
	var active []string
	for _, e := range xmkit.Effects() {
		v, err := t.Fx(e, m.row)
		if err != nil {
			return errorStyle.Render(err.Error())
		}
		if v != e.Default() {
			active = append(active, fmt.Sprintf("%s=%02X", e, v))
		}
	}
	if len(active) == 0 {
		return statusStyle.Render("no active effects")
	}
	return fxStyle.Render(strings.Join(active, " "))
}

func main() {
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() != 1 || *help {
		flag.Usage()
		os.Exit(0)
	}
	m, err := xmkit.ParseFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open %v: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
	if _, err := tea.NewProgram(newModel(m), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "xmkit-view failed: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "xmkit pattern browser showing the effective state of every row.\nUsage: %s [flags] file.xm\n", os.Args[0])
	flag.PrintDefaults()
}
