package readelf

import (
	"github.com/midbel/readelf/rw"
)

const (
	TypeNone = iota
	TypeRel
	TypeExec
	TypeDyn
	TypeCore
)

// Header is the ELF file header. Address sized fields are stored on 64 bits
// whatever the class of the file.
type Header struct {
	Ident Ident

	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	Phoff     uint64
	Shoff     uint64
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// ParseHeader reads the file header following the identification prefix. The
// number of bytes consumed has to match the size declared by the header.
func ParseHeader(buf []byte, id Ident) (Header, error) {
	h := Header{Ident: id}
	c := rw.NewCursor(buf, IdentLen, id.Layout())

	h.Type = c.Uint16()
	h.Machine = c.Uint16()
	h.Version = c.Uint32()
	h.Entry = c.Uint64()
	h.Phoff = c.Uint64()
	h.Shoff = c.Uint64()
	h.Flags = c.Uint32()
	h.Ehsize = c.Uint16()
	h.Phentsize = c.Uint16()
	h.Phnum = c.Uint16()
	h.Shentsize = c.Uint16()
	h.Shnum = c.Uint16()
	h.Shstrndx = c.Uint16()

	if err := c.Err(); err != nil {
		return h, err
	}
	if c.Offset() != int(h.Ehsize) {
		return h, formatError("ehsize", uint64(h.Ehsize), ErrHeaderSize)
	}
	return h, nil
}

func (h Header) TypeName() string {
	switch h.Type {
	case TypeNone:
		return "unknown"
	case TypeRel:
		return "relocatable file"
	case TypeExec:
		return "executable file"
	case TypeDyn:
		return "shared object"
	case TypeCore:
		return "core file"
	default:
		return "other"
	}
}

func (h Header) MachineName() string {
	switch h.Machine {
	case 0x00:
		return "none"
	case 0x02:
		return "SPARC"
	case 0x03:
		return "Intel 80386"
	case 0x08:
		return "MIPS"
	case 0x14:
		return "PowerPC"
	case 0x15:
		return "PowerPC64"
	case 0x16:
		return "S390"
	case 0x28:
		return "ARM"
	case 0x3e:
		return "AMD x86-64"
	case 0xb7:
		return "AArch64"
	case 0xf3:
		return "RISC-V"
	default:
		return "other"
	}
}
