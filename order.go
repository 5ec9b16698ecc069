package xmkit

// Order is the pattern order list of a module, in practice just a slice of
// pattern indices, but provides a convenience function that returns -1 for
// indices out of bounds of the list.
type Order []byte

// Get returns the pattern index at position; or -1 if the position is out of
// range
func (o Order) Get(pos int) int {
	if pos < 0 || pos >= len(o) {
		return -1
	}
	return int(o[pos])
}
