package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xmkit/xmkit"
	"github.com/xmkit/xmkit/internal/xmtest"
)

func testModule(t *testing.T) *xmkit.Module {
	t.Helper()
	b := xmtest.NewBuilder(1)
	b.Order = []byte{3, 0, 1}
	b.Patterns = [][]byte{
		xmtest.Pattern(2, xmtest.Fx(0x04, 0x37), xmtest.Empty()),
		xmtest.Pattern(3),
	}
	m, err := xmkit.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

func press(m tea.Model, key string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return m
}

func TestNavigation(t *testing.T) {
	var m tea.Model = newModel(testModule(t))
	if pos := m.(model).orderPos; pos != 1 {
		t.Fatalf("expected to start at order position 1, the first existing pattern; got %d", pos)
	}
	m = press(m, "j")
	m = press(m, "j") // past the last row of pattern 0
	if s := m.(model); s.orderPos != 2 || s.row != 0 {
		t.Fatalf("got order position %d row %d, expected 2 and 0", s.orderPos, s.row)
	}
	m = press(m, "k")
	if s := m.(model); s.orderPos != 1 || s.row != 1 {
		t.Fatalf("got order position %d row %d, expected 1 and 1", s.orderPos, s.row)
	}
	m = press(m, "[") // position 0 refers to a missing pattern
	if s := m.(model); s.orderPos != 1 {
		t.Fatalf("expected to stay at order position 1, got %d", s.orderPos)
	}
}

func TestViewShowsEffects(t *testing.T) {
	var m tea.Model = newModel(testModule(t))
	m = press(m, "j")
	view := m.View()
	if !strings.Contains(view, "4=37") {
		t.Errorf("expected the vibrato carried to row 1 in the view:\n%s", view)
	}
	m = press(m, "q")
	if m.View() != "" {
		t.Errorf("expected an empty view after quitting")
	}
}
