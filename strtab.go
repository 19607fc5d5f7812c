package readelf

import (
	"bytes"
	"fmt"
	"strings"
)

// StringTable holds the bytes of a string table section. The zero value is an
// unset table: names are then reported by their offset.
type StringTable struct {
	data []byte
	set  bool
}

func NewStringTable(data []byte) StringTable {
	return StringTable{
		data: data,
		set:  true,
	}
}

func (s StringTable) IsSet() bool {
	return s.set
}

// Resolve returns the null terminated name starting at offset.
func (s StringTable) Resolve(offset uint64) (string, error) {
	if !s.set {
		return fmt.Sprintf("name@%d", offset), nil
	}
	if offset >= uint64(len(s.data)) {
		return "", &BoundsError{Offset: int(offset), Size: 1, Len: len(s.data)}
	}
	rest := s.data[offset:]
	x := bytes.IndexByte(rest, 0)
	if x < 0 {
		return "", &BoundsError{Offset: int(offset), Size: len(rest) + 1, Len: len(s.data)}
	}
	var str strings.Builder
	for _, b := range rest[:x] {
		str.WriteRune(rune(b))
	}
	return str.String(), nil
}
