package xmkit

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
)

// readString decodes a fixed-width, possibly NUL-terminated text field.
// Invalid UTF-8 is replaced with U+FFFD and trailing whitespace is trimmed.
func readString(data []byte, offset, size int) string {
	field := data[offset : offset+size]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	decoded, err := xunicode.UTF8.NewDecoder().Bytes(field)
	if err != nil {
		decoded = []byte(strings.ToValidUTF8(string(field), "\uFFFD"))
	}
	return strings.TrimRightFunc(string(decoded), unicode.IsSpace)
}

func readU16(data []byte, offset int) int {
	return int(binary.LittleEndian.Uint16(data[offset:]))
}

func readU32(data []byte, offset int) int {
	return int(binary.LittleEndian.Uint32(data[offset:]))
}
