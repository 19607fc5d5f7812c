package readelf

import (
	"errors"
	"fmt"

	"github.com/midbel/readelf/rw"
)

var (
	ErrMagic      = errors.New("invalid magic")
	ErrClass      = errors.New("invalid file class")
	ErrData       = errors.New("invalid data encoding")
	ErrVersion    = errors.New("invalid file version")
	ErrHeaderSize = errors.New("invalid header size")
	ErrShort      = errors.New("file too short")
	ErrEntrySize  = errors.New("invalid entry size")
	ErrIndex      = errors.New("section index out of range")
)

// BoundsError reports a read that would go past the end of a buffer.
type BoundsError = rw.BoundsError

// FormatError reports a structural violation of the ELF format. A file
// producing a FormatError can not be parsed any further.
type FormatError struct {
	Field string
	Value uint64
	Err   error
}

func formatError(field string, value uint64, err error) error {
	return &FormatError{
		Field: field,
		Value: value,
		Err:   err,
	}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("elf: %s: %v (%#x)", e.Field, e.Err, e.Value)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
