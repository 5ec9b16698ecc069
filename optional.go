package xmkit

// OptionalByte is a byte that may or may not have been coded in the module
// data. The zero value is empty.
type OptionalByte struct {
	value  byte
	exists bool
}

func NewOptionalByte(value byte, exists bool) OptionalByte {
	return OptionalByte{value, exists}
}

func NewOptionalByteOf(value byte) OptionalByte {
	return OptionalByte{value: value, exists: true}
}

func (o OptionalByte) Unpack() (byte, bool) {
	return o.value, o.exists
}

// Value returns the stored byte. It panics if the optional is empty.
func (o OptionalByte) Value() byte {
	if !o.exists {
		panic("Access value of empty OptionalByte")
	}
	return o.value
}

// Or returns the stored byte, or def when the optional is empty.
func (o OptionalByte) Or(def byte) byte {
	if !o.exists {
		return def
	}
	return o.value
}

func (o OptionalByte) Empty() bool {
	return !o.exists
}

func (o OptionalByte) Equals(value byte) bool {
	return o.exists && o.value == value
}
