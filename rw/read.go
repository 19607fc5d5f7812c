package rw

import (
	"fmt"
)

const (
	Class32 = 32
	Class64 = 64
)

// Layout describes how integers are laid out in a file: its address width and
// its byte order.
type Layout struct {
	Class  int
	Little bool
}

func (y Layout) String() string {
	order := "big endian"
	if y.Little {
		order = "little endian"
	}
	return fmt.Sprintf("ELF%d %s", y.Class, order)
}

type BoundsError struct {
	Offset int
	Size   int
	Len    int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("invalid read of size %d at offset %d (buffer length %d)", e.Size, e.Offset, e.Len)
}

// Read decodes an unsigned integer of size bytes found at offset in buf and
// returns it with the offset of the next unread byte.
//
// A read of 8 bytes is narrowed to 4 bytes when the layout is 32 bits wide:
// address sized fields share the same code path for both classes.
func Read(buf []byte, size, offset int, lay Layout) (uint64, int, error) {
	if size == 8 && lay.Class == Class32 {
		size = 4
	}
	switch size {
	case 1, 2, 4, 8:
	default:
		return 0, offset, &BoundsError{Offset: offset, Size: size, Len: len(buf)}
	}
	if offset < 0 || offset > len(buf)-size {
		return 0, offset, &BoundsError{Offset: offset, Size: size, Len: len(buf)}
	}
	var n uint64
	if lay.Little {
		for i := size - 1; i >= 0; i-- {
			n = n<<8 | uint64(buf[offset+i])
		}
	} else {
		for i := 0; i < size; i++ {
			n = n<<8 | uint64(buf[offset+i])
		}
	}
	return n, offset + size, nil
}

// Cursor threads an offset through a sequence of reads. The first failing
// read is kept and every following read is a no-op returning zero.
type Cursor struct {
	buf    []byte
	offset int
	layout Layout
	err    error
}

func NewCursor(buf []byte, offset int, lay Layout) *Cursor {
	return &Cursor{
		buf:    buf,
		offset: offset,
		layout: lay,
	}
}

func (c *Cursor) Uint(size int) uint64 {
	if c.err != nil {
		return 0
	}
	n, next, err := Read(c.buf, size, c.offset, c.layout)
	if err != nil {
		c.err = err
		return 0
	}
	c.offset = next
	return n
}

func (c *Cursor) Uint8() uint8   { return uint8(c.Uint(1)) }
func (c *Cursor) Uint16() uint16 { return uint16(c.Uint(2)) }
func (c *Cursor) Uint32() uint32 { return uint32(c.Uint(4)) }
func (c *Cursor) Uint64() uint64 { return c.Uint(8) }

func (c *Cursor) Offset() int { return c.offset }

func (c *Cursor) Err() error { return c.err }
