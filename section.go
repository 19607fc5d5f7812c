package readelf

import (
	"fmt"

	"github.com/midbel/readelf/rw"
)

const (
	SectionNull = iota
	SectionProgBits
	SectionSymTab
	SectionStrTab
	SectionRela
	SectionHash
	SectionDynamic
	SectionNote
	SectionNoBits
	SectionRel
	SectionShLib
	SectionDynSym
)

type SectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// ParseSections decodes count section headers of entsize bytes each. Every
// entry is decoded from its own slice of buf.
func ParseSections(buf []byte, entsize, count int, id Ident) ([]SectionHeader, error) {
	if count > 0 && entsize <= 0 {
		return nil, formatError("shentsize", uint64(entsize), ErrEntrySize)
	}
	list := make([]SectionHeader, 0, count)
	for i := 0; i < count; i++ {
		offset := i * entsize
		if offset > len(buf) {
			return nil, &BoundsError{Offset: offset, Size: entsize, Len: len(buf)}
		}
		sh, err := readSectionHeader(buf[offset:], id)
		if err != nil {
			return nil, fmt.Errorf("section header %d: %w", i, err)
		}
		list = append(list, sh)
	}
	return list, nil
}

func readSectionHeader(buf []byte, id Ident) (SectionHeader, error) {
	var (
		sh SectionHeader
		c  = rw.NewCursor(buf, 0, id.Layout())
	)
	sh.Name = c.Uint32()
	sh.Type = c.Uint32()
	sh.Flags = c.Uint64()
	sh.Addr = c.Uint64()
	sh.Offset = c.Uint64()
	sh.Size = c.Uint64()
	sh.Link = c.Uint32()
	sh.Info = c.Uint32()
	sh.AddrAlign = c.Uint64()
	sh.EntSize = c.Uint64()
	return sh, c.Err()
}

// Empty reports whether every field of the header is zero, which is the case
// of the reserved entry at index 0.
func (sh SectionHeader) Empty() bool {
	return sh == SectionHeader{}
}

// InFile reports whether the content of the section is stored in the file.
// NOBITS sections (.bss) have a size but occupy no bytes.
func (sh SectionHeader) InFile() bool {
	return sh.Type != SectionNoBits
}

func (sh SectionHeader) IsSymbolTable() bool {
	return sh.Type == SectionSymTab
}

func (sh SectionHeader) TypeName() string {
	switch sh.Type {
	case SectionNull:
		return "NULL"
	case SectionProgBits:
		return "PROGBITS"
	case SectionSymTab:
		return "SYMTAB"
	case SectionStrTab:
		return "STRTAB"
	case SectionRela:
		return "RELA"
	case SectionHash:
		return "HASH"
	case SectionDynamic:
		return "DYNAMIC"
	case SectionNote:
		return "NOTE"
	case SectionNoBits:
		return "NOBITS"
	case SectionRel:
		return "REL"
	case SectionShLib:
		return "SHLIB"
	case SectionDynSym:
		return "DYNSYM"
	default:
		return "other"
	}
}
