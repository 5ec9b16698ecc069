package xmkit

// SongPos represents a position in a song, in terms of order row and pattern
// row. The order row is the position in the order list, and the pattern row
// is the index of the row in the pattern played at that position.
type SongPos struct {
	OrderRow   int
	PatternRow int
}

// LengthInRows returns the number of rows played when the order list is
// played once from the start. Order entries that refer to missing patterns
// contribute no rows.
func (m *Module) LengthInRows() int {
	ret := 0
	for pos := range m.order {
		if p, ok := m.OrderPattern(pos); ok {
			ret += p.Rows()
		}
	}
	return ret
}

// SongPos converts a song row, counted from the start of the order list,
// into an order row and pattern row. ok is false if the song row is negative
// or past the end of the song.
func (m *Module) SongPos(songRow int) (pos SongPos, ok bool) {
	if songRow < 0 {
		return SongPos{}, false
	}
	for o := range m.order {
		p, ok := m.OrderPattern(o)
		if !ok {
			continue
		}
		if songRow < p.Rows() {
			return SongPos{OrderRow: o, PatternRow: songRow}, true
		}
		songRow -= p.Rows()
	}
	return SongPos{}, false
}

// SongRow is the inverse of SongPos. Positions in order rows with a missing
// pattern, or past the end of their pattern, return -1.
func (m *Module) SongRow(pos SongPos) int {
	p, ok := m.OrderPattern(pos.OrderRow)
	if !ok || pos.PatternRow < 0 || pos.PatternRow >= p.Rows() {
		return -1
	}
	ret := pos.PatternRow
	for o := 0; o < pos.OrderRow; o++ {
		if p, ok := m.OrderPattern(o); ok {
			ret += p.Rows()
		}
	}
	return ret
}
