package readelf

import (
	"fmt"
	"io"
	"os"

	"github.com/midbel/readelf/x86"
)

const (
	TextSection   = ".text"
	SymbolStrings = ".strtab"
)

// File is the result of parsing one ELF image. Every lookup goes through the
// File so that many files can be inspected at the same time.
type File struct {
	Header
	Sections []SectionHeader
	Symbols  []Symbol

	names   StringTable
	symbols StringTable
	buf     []byte
}

func Open(file string) (*File, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

func Load(r io.Reader) (*File, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// Parse decodes the structure of the ELF image held by buf. buf is kept by
// the returned File and should not be modified afterwards.
func Parse(buf []byte) (*File, error) {
	id, err := ParseIdent(buf)
	if err != nil {
		return nil, err
	}
	h, err := ParseHeader(buf, id)
	if err != nil {
		return nil, err
	}
	f := File{
		Header: h,
		buf:    buf,
	}
	if h.Shoff != 0 {
		if h.Shoff > uint64(len(buf)) {
			return nil, &BoundsError{Offset: int(h.Shoff), Size: int(h.Shentsize), Len: len(buf)}
		}
		f.Sections, err = ParseSections(buf[h.Shoff:], int(h.Shentsize), int(h.Shnum), id)
		if err != nil {
			return nil, err
		}
	}
	if h.Shstrndx != 0 {
		if int(h.Shstrndx) >= len(f.Sections) {
			return nil, formatError("shstrndx", uint64(h.Shstrndx), ErrIndex)
		}
		if f.names, err = f.stringTable(f.Sections[h.Shstrndx]); err != nil {
			return nil, err
		}
	}
	for _, sh := range f.Sections {
		if sh.Type == SectionNull {
			continue
		}
		name, err := f.names.Resolve(uint64(sh.Name))
		if err != nil {
			return nil, err
		}
		if name == SymbolStrings {
			if f.symbols, err = f.stringTable(sh); err != nil {
				return nil, err
			}
		}
		if sh.IsSymbolTable() {
			if f.Symbols, err = ParseSymbols(sh, buf, id); err != nil {
				return nil, err
			}
		}
	}
	return &f, nil
}

// stringTable keeps everything from the start of sh to the end of the file.
func (f *File) stringTable(sh SectionHeader) (StringTable, error) {
	if sh.Offset > uint64(len(f.buf)) {
		return StringTable{}, &BoundsError{Offset: int(sh.Offset), Size: int(sh.Size), Len: len(f.buf)}
	}
	return NewStringTable(f.buf[sh.Offset:]), nil
}

func (f *File) Bytes() []byte {
	return f.buf
}

func (f *File) SectionName(sh SectionHeader) (string, error) {
	return f.names.Resolve(uint64(sh.Name))
}

func (f *File) SymbolName(sym Symbol) (string, error) {
	return f.symbols.Resolve(uint64(sym.Name))
}

// SectionByName returns the first section with the given name. The boolean is
// false when no section matches.
func (f *File) SectionByName(name string) (SectionHeader, bool) {
	for _, sh := range f.Sections {
		n, err := f.SectionName(sh)
		if err == nil && n == name {
			return sh, true
		}
	}
	return SectionHeader{}, false
}

func (f *File) SectionData(sh SectionHeader) ([]byte, error) {
	end := sh.Offset + sh.Size
	if end < sh.Offset || end > uint64(len(f.buf)) {
		return nil, &BoundsError{Offset: int(sh.Offset), Size: int(sh.Size), Len: len(f.buf)}
	}
	return f.buf[sh.Offset:end], nil
}

// SymbolSection returns the section a symbol refers to. A symbol pointing
// outside of the section table is reported against the section at index 0.
// The result is meant for display only.
func (f *File) SymbolSection(sym Symbol) SectionHeader {
	if len(f.Sections) == 0 {
		return SectionHeader{}
	}
	ix := int(sym.Shndx)
	if ix >= len(f.Sections) {
		ix = 0
	}
	return f.Sections[ix]
}

func (f *File) DescribeSection(sh SectionHeader) (string, error) {
	name, err := f.SectionName(sh)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %d, %d :: %d", name, sh.Type, sh.Offset, sh.Size), nil
}

func (f *File) DescribeSymbol(sym Symbol) (string, error) {
	name, err := f.SymbolName(sym)
	if err != nil {
		return "", err
	}
	str := fmt.Sprintf("%s %s %s: %d :: %d", sym.Binding(), sym.Type(), name, sym.Value, sym.Size)
	section, err := f.SectionName(f.SymbolSection(sym))
	if err != nil {
		return "", err
	}
	if section != "" {
		str += " in " + section
	}
	return str, nil
}

// Labels turns the symbols of the file into labels for the decoder.
func (f *File) Labels() ([]x86.Label, error) {
	var list []x86.Label
	for _, sym := range f.Symbols {
		if sym.Empty() {
			continue
		}
		name, err := f.SymbolName(sym)
		if err != nil {
			return nil, err
		}
		list = append(list, x86.Label{
			Name:  name,
			Value: sym.Value,
		})
	}
	return list, nil
}

// Disassemble decodes the section with the given name, .text when name is
// empty. Positions are file offsets starting at the offset of the section.
func (f *File) Disassemble(name string) ([]x86.Line, error) {
	if name == "" {
		name = TextSection
	}
	sh, ok := f.SectionByName(name)
	if !ok {
		return nil, fmt.Errorf("%s: section not found", name)
	}
	if sh.Offset > uint64(len(f.buf)) {
		return nil, &BoundsError{Offset: int(sh.Offset), Size: int(sh.Size), Len: len(f.buf)}
	}
	labels, err := f.Labels()
	if err != nil {
		return nil, err
	}
	return x86.Decode(f.buf[sh.Offset:], int(sh.Size), sh.Offset, f.Ident.Layout(), labels)
}
