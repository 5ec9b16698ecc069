package xmkit

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat matches every *FormatError with errors.Is.
	ErrFormat = errors.New("invalid or corrupt XM data")
	// ErrRowOutOfRange matches every *RowOutOfRangeError with errors.Is.
	ErrRowOutOfRange = errors.New("row out of range")
	// ErrInvalidEffect matches every *InvalidEffectError with errors.Is.
	ErrInvalidEffect = errors.New("invalid effect")
)

type (
	// FormatError is returned when the data is not a version 1.04 eXtended
	// Module, or when any declared size disagrees with the data actually
	// present.
	FormatError struct {
		Reason string
	}

	// IOError is returned by ParseFile when the file could not be read.
	IOError struct {
		Path string
		Err  error
	}

	// RowOutOfRangeError is returned by the track and pattern queries when
	// the row index is negative or not less than the number of rows.
	RowOutOfRangeError struct {
		Row  int
		Rows int
	}

	// InvalidEffectError is returned when an effect query names an effect
	// that does not exist.
	InvalidEffectError struct {
		Effect Effect
	}
)

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string { return e.Reason }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func (e *IOError) Error() string { return fmt.Sprintf("could not read %v: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

func (e *RowOutOfRangeError) Error() string {
	return fmt.Sprintf("row %d out of range, track has %d rows", e.Row, e.Rows)
}

func (e *RowOutOfRangeError) Is(target error) bool { return target == ErrRowOutOfRange }

func (e *InvalidEffectError) Error() string {
	return fmt.Sprintf("invalid effect identifier %d", int(e.Effect))
}

func (e *InvalidEffectError) Is(target error) bool { return target == ErrInvalidEffect }
