// Package x86 implements a small, best effort decoder for a handful of x86
// instructions (ret, push, pop and two forms of mov). Any other byte is
// reported as is and decoding goes on with the next byte.
package x86

import (
	"fmt"

	"github.com/midbel/readelf/rw"
)

const (
	prefixOperand16 = 0x66
	prefixREXW      = 0x48

	opRet      = 0xC3
	opMovRegRm = 0x89
)

const (
	width16 = 2
	width32 = 4
	width64 = 8
)

var registers = []string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di"}

// Register returns the AT&T name of the general purpose register with the
// given 3 bits index for an operand of width bytes.
func Register(index uint8, width int) string {
	var prefix string
	switch width {
	case width32:
		prefix = "e"
	case width64:
		prefix = "r"
	}
	return "%" + prefix + registers[index&7]
}

// Label names a position in the decoded byte stream.
type Label struct {
	Name  string
	Value uint64
}

// Line is either a label or a decoded instruction. Labels do not consume
// any byte.
type Line struct {
	Pos   uint64
	Size  int
	Label string
	Text  string
}

func (i Line) IsLabel() bool {
	return i.Size == 0
}

func (i Line) String() string {
	if i.IsLabel() {
		return i.Label + ":"
	}
	return "  " + i.Text
}

// Decoder walks a byte slice once, from its first to its last byte. Before
// decoding the instruction found at a position, it yields the labels whose
// value is equal to that position.
type Decoder struct {
	code   []byte
	pos    uint64
	layout rw.Layout

	labels  []Label
	queue   []Label
	checked bool

	err  error
	done bool
}

func NewDecoder(code []byte, start uint64, lay rw.Layout, labels []Label) *Decoder {
	return &Decoder{
		code:   code,
		pos:    start,
		layout: lay,
		labels: labels,
	}
}

// Decode decodes the first limit bytes of code. start is the position of the
// first byte, used to match labels.
func Decode(code []byte, limit int, start uint64, lay rw.Layout, labels []Label) ([]Line, error) {
	if limit < 0 {
		limit = 0
	}
	if limit < len(code) {
		code = code[:limit]
	}
	var (
		dec  = NewDecoder(code, start, lay, labels)
		list []Line
	)
	for {
		i, ok := dec.Next()
		if !ok {
			break
		}
		list = append(list, i)
	}
	return list, dec.Err()
}

// Next returns the next line. It returns false once the slice is exhausted
// or when an instruction is truncated; Err tells which.
func (d *Decoder) Next() (Line, bool) {
	if d.done {
		return Line{}, false
	}
	if !d.checked {
		d.checked = true
		for _, b := range d.labels {
			if b.Value == d.pos {
				d.queue = append(d.queue, b)
			}
		}
	}
	if len(d.queue) > 0 {
		b := d.queue[0]
		d.queue = d.queue[1:]
		return Line{Pos: d.pos, Label: b.Name}, true
	}
	if len(d.code) == 0 {
		d.done = true
		return Line{}, false
	}
	i, err := d.decode()
	if err != nil {
		d.err = err
		d.done = true
		return Line{}, false
	}
	d.advance(i.Size)
	d.checked = false
	return i, true
}

func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) Pos() uint64 {
	return d.pos
}

func (d *Decoder) advance(n int) {
	d.code = d.code[n:]
	d.pos += uint64(n)
}

// decode reads one instruction at the current position. For mov imm,reg
// (0xB8-0xBF) the register is taken from the low 3 bits of the opcode, so
// 0xBC-0xBF name %sp %bp %si %di and not the same registers as 0xB8-0xBB.
func (d *Decoder) decode() (Line, error) {
	var (
		code  = d.code
		width = width32
		skip  int
	)
	switch code[0] {
	case prefixOperand16:
		width, skip = width16, 1
	case prefixREXW:
		width, skip = width64, 1
	}
	if skip > 0 {
		code = code[skip:]
		if len(code) == 0 {
			return Line{}, truncated(d.pos, skip+1, len(d.code))
		}
	}
	i := Line{
		Pos: d.pos,
	}
	switch op := code[0]; {
	case op == opRet:
		i.Text, i.Size = "ret", 1
	case op>>4 == 0x5:
		reg := op & 0xF
		if reg < 8 {
			i.Text = fmt.Sprintf("push %s", Register(reg, width64))
		} else {
			i.Text = fmt.Sprintf("pop %s", Register(reg-8, width64))
		}
		i.Size = 1
	case op == opMovRegRm:
		if len(code) < 2 {
			return Line{}, truncated(d.pos, skip+2, len(d.code))
		}
		var (
			modrm = code[1]
			rm    = modrm & 7
			reg   = (modrm >> 3) & 7
		)
		i.Text = fmt.Sprintf("mov %s, %s", Register(reg, width), Register(rm, width))
		i.Size = 2
	case op>>3 == 0b10111:
		val, next, err := rw.Read(code, width, 1, d.layout)
		if err != nil {
			return Line{}, err
		}
		i.Text = fmt.Sprintf("mov 0x%x, %s", val, Register(op&7, width))
		i.Size = next
	default:
		i.Text = fmt.Sprintf("%02X", op)
		i.Size = 1
	}
	i.Size += skip
	return i, nil
}

func truncated(pos uint64, size, length int) error {
	return fmt.Errorf("truncated instruction at %#x: %w", pos, &rw.BoundsError{
		Offset: 0,
		Size:   size,
		Len:    length,
	})
}
