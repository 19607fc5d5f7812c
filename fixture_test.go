package readelf

import (
	"bytes"
	"encoding/binary"

	"github.com/midbel/readelf/rw"
)

type fixtureSymbol struct {
	Name   string
	Value  uint64
	AtText bool
	Info   uint8
	Other  uint8
	Shndx  uint16
}

type fixture struct {
	Class   int
	Big     bool
	Text    []byte
	Symbols []fixtureSymbol
	// without symbol table nor symbol names
	Bare bool
	// size of a .bss section placed just before .shstrtab, none when 0
	Bss uint64
}

type image struct {
	Data     []byte
	TextOff  uint64
	SymOff   uint64
	ShOff    uint64
	Sections int
}

const (
	indexText = 1
	indexSym  = 2
	indexStr  = 3
)

type encoder struct {
	bytes.Buffer
	order binary.ByteOrder
	wide  bool
}

func newEncoder(class int, big bool) *encoder {
	e := encoder{
		order: binary.LittleEndian,
		wide:  class == rw.Class64,
	}
	if big {
		e.order = binary.BigEndian
	}
	return &e
}

func (e *encoder) u8(v uint8)   { e.WriteByte(v) }
func (e *encoder) u16(v uint16) { binary.Write(e, e.order, v) }
func (e *encoder) u32(v uint32) { binary.Write(e, e.order, v) }

// addr writes fields that are 8 bytes wide on 64 bits files and 4 bytes on
// 32 bits files.
func (e *encoder) addr(v uint64) {
	if e.wide {
		binary.Write(e, e.order, v)
	} else {
		binary.Write(e, e.order, uint32(v))
	}
}

func (e *encoder) pad(n int) {
	for e.Len()%n != 0 {
		e.WriteByte(0)
	}
}

func (f fixture) sizes() (ehsize, shentsize, symentsize int) {
	if f.Class == rw.Class32 {
		return 52, 40, 16
	}
	return 64, 64, 24
}

func strtab(names ...string) ([]byte, map[string]uint32) {
	var (
		buf     = []byte{0}
		offsets = make(map[string]uint32)
	)
	for _, n := range names {
		if _, ok := offsets[n]; ok {
			continue
		}
		offsets[n] = uint32(len(buf))
		buf = append(buf, n...)
		buf = append(buf, 0)
	}
	return buf, offsets
}

func (e *encoder) header(f fixture, shoff uint64, shnum, shstrndx uint16) {
	ehsize, shentsize, _ := f.sizes()

	class, data := byte(Class64), byte(DataLSB)
	if f.Class == rw.Class32 {
		class = Class32
	}
	if f.Big {
		data = DataMSB
	}
	e.Write(Magic)
	e.Write([]byte{class, data, CurrentVersion, 0, 0})
	e.Write(make([]byte, IdentLen-e.Len()))

	e.u16(TypeRel)
	e.u16(0x3e)
	e.u32(1)
	e.addr(0)
	e.addr(0)
	e.addr(shoff)
	e.u32(0)
	e.u16(uint16(ehsize))
	e.u16(0)
	e.u16(0)
	e.u16(uint16(shentsize))
	e.u16(shnum)
	e.u16(shstrndx)
}

func (e *encoder) section(sh SectionHeader) {
	e.u32(sh.Name)
	e.u32(sh.Type)
	e.addr(sh.Flags)
	e.addr(sh.Addr)
	e.addr(sh.Offset)
	e.addr(sh.Size)
	e.u32(sh.Link)
	e.u32(sh.Info)
	e.addr(sh.AddrAlign)
	e.addr(sh.EntSize)
}

func (e *encoder) symbol(s Symbol) {
	if e.wide {
		e.u32(s.Name)
		e.u8(s.Info)
		e.u8(s.Other)
		e.u16(s.Shndx)
		e.addr(s.Value)
		e.addr(s.Size)
		return
	}
	e.u32(s.Name)
	e.u32(uint32(s.Value))
	e.u32(uint32(s.Size))
	e.u8(s.Info)
	e.u8(s.Other)
	e.u16(s.Shndx)
}

// build lays out an ELF relocatable object: header, .text, .symtab, .strtab,
// .shstrtab and finally the section header table.
func (f fixture) build() image {
	var (
		ehsize, _, symentsize = f.sizes()
		body                  = newEncoder(f.Class, f.Big)
		img                   image
	)
	body.Write(make([]byte, ehsize))
	body.pad(16)
	img.TextOff = uint64(body.Len())
	body.Write(f.Text)
	body.pad(8)

	var names []string
	for _, s := range f.Symbols {
		names = append(names, s.Name)
	}
	strs, stroffsets := strtab(names...)

	img.SymOff = uint64(body.Len())
	if !f.Bare {
		body.symbol(Symbol{})
		for _, s := range f.Symbols {
			value := s.Value
			if s.AtText {
				value = img.TextOff
			}
			body.symbol(Symbol{
				Name:  stroffsets[s.Name],
				Value: value,
				Info:  s.Info,
				Other: s.Other,
				Shndx: s.Shndx,
			})
		}
	}
	symsize := uint64(body.Len()) - img.SymOff

	strOff := uint64(body.Len())
	if !f.Bare {
		body.Write(strs)
	}

	sections := []string{".text", ".shstrtab"}
	if !f.Bare {
		sections = []string{".text", ".symtab", ".strtab", ".shstrtab"}
	}
	if f.Bss > 0 {
		sections = append(sections, ".bss")
	}
	shstrs, shoffsets := strtab(sections...)
	shstrOff := uint64(body.Len())
	body.Write(shstrs)
	body.pad(8)

	img.ShOff = uint64(body.Len())
	table := []SectionHeader{
		{},
		{
			Name:      shoffsets[".text"],
			Type:      SectionProgBits,
			Flags:     6,
			Offset:    img.TextOff,
			Size:      uint64(len(f.Text)),
			AddrAlign: 16,
		},
	}
	if !f.Bare {
		table = append(table, SectionHeader{
			Name:      shoffsets[".symtab"],
			Type:      SectionSymTab,
			Offset:    img.SymOff,
			Size:      symsize,
			Link:      indexStr,
			Info:      1,
			AddrAlign: 8,
			EntSize:   uint64(symentsize),
		})
		table = append(table, SectionHeader{
			Name:      shoffsets[".strtab"],
			Type:      SectionStrTab,
			Offset:    strOff,
			Size:      uint64(len(strs)),
			AddrAlign: 1,
		})
	}
	if f.Bss > 0 {
		table = append(table, SectionHeader{
			Name:      shoffsets[".bss"],
			Type:      SectionNoBits,
			Flags:     3,
			Offset:    img.ShOff,
			Size:      f.Bss,
			AddrAlign: 32,
		})
	}
	table = append(table, SectionHeader{
		Name:      shoffsets[".shstrtab"],
		Type:      SectionStrTab,
		Offset:    shstrOff,
		Size:      uint64(len(shstrs)),
		AddrAlign: 1,
	})
	for _, sh := range table {
		body.section(sh)
	}
	img.Sections = len(table)

	head := newEncoder(f.Class, f.Big)
	head.header(f, img.ShOff, uint16(len(table)), uint16(len(table)-1))

	img.Data = body.Bytes()
	copy(img.Data, head.Bytes())
	return img
}
