package readelf

import (
	"fmt"

	"github.com/midbel/readelf/rw"
)

type Binding uint8

const (
	BindLocal  Binding = 0
	BindGlobal Binding = 1
	BindWeak   Binding = 2
	BindLoOS   Binding = 10
	BindHiOS   Binding = 12
	BindLoProc Binding = 13
	BindHiProc Binding = 15
)

func (b Binding) String() string {
	switch {
	case b == BindLocal:
		return "local"
	case b == BindGlobal:
		return "global"
	case b == BindWeak:
		return "weak"
	case b >= BindLoOS && b <= BindHiOS:
		return "os"
	case b >= BindLoProc && b <= BindHiProc:
		return "proc"
	default:
		return ""
	}
}

type SymbolType uint8

const (
	SymNoType  SymbolType = 0
	SymObject  SymbolType = 1
	SymFunc    SymbolType = 2
	SymSection SymbolType = 3
	SymFile    SymbolType = 4
	SymCommon  SymbolType = 5
	SymTLS     SymbolType = 6
	SymLoOS    SymbolType = 10
	SymHiOS    SymbolType = 12
	SymLoProc  SymbolType = 13
	SymHiProc  SymbolType = 15
)

func (t SymbolType) String() string {
	switch {
	case t == SymNoType:
		return "notype"
	case t == SymObject:
		return "object"
	case t == SymFunc:
		return "func"
	case t == SymSection:
		return "section"
	case t == SymFile:
		return "file"
	case t == SymCommon:
		return "common"
	case t == SymTLS:
		return "tls"
	case t >= SymLoOS && t <= SymHiOS:
		return "os"
	case t >= SymLoProc && t <= SymHiProc:
		return "proc"
	default:
		return ""
	}
}

type Symbol struct {
	Name  uint32
	Value uint64
	Size  uint64
	Info  uint8
	Other uint8
	Shndx uint16
}

func (s Symbol) Binding() Binding {
	return Binding(s.Info >> 4)
}

func (s Symbol) Type() SymbolType {
	return SymbolType(s.Info & 0xF)
}

func (s Symbol) Empty() bool {
	return s == Symbol{}
}

// ParseSymbols decodes the entries of the symbol table described by sh. The
// layout of an entry differs between 32 and 64 bits files.
func ParseSymbols(sh SectionHeader, buf []byte, id Ident) ([]Symbol, error) {
	if sh.Size == 0 {
		return nil, nil
	}
	if sh.EntSize == 0 {
		return nil, formatError("sh_entsize", sh.EntSize, ErrEntrySize)
	}
	if sh.Offset > uint64(len(buf)) {
		return nil, &BoundsError{Offset: int(sh.Offset), Size: int(sh.Size), Len: len(buf)}
	}
	read := readSymbol64
	if id.Is32() {
		read = readSymbol32
	}
	var (
		lay  = id.Layout()
		data = buf[sh.Offset:]
		list []Symbol
	)
	for i := uint64(0); i < sh.Size; i += sh.EntSize {
		sym, err := read(rw.NewCursor(data, int(i), lay))
		if err != nil {
			return nil, fmt.Errorf("symbol %d: %w", i/sh.EntSize, err)
		}
		list = append(list, sym)
	}
	return list, nil
}

func readSymbol64(c *rw.Cursor) (Symbol, error) {
	var s Symbol
	s.Name = c.Uint32()
	s.Info = c.Uint8()
	s.Other = c.Uint8()
	s.Shndx = c.Uint16()
	s.Value = c.Uint64()
	s.Size = c.Uint64()
	return s, c.Err()
}

func readSymbol32(c *rw.Cursor) (Symbol, error) {
	var s Symbol
	s.Name = c.Uint32()
	s.Value = uint64(c.Uint32())
	s.Size = uint64(c.Uint32())
	s.Info = c.Uint8()
	s.Other = c.Uint8()
	s.Shndx = c.Uint16()
	return s, c.Err()
}
