package readelf

import (
	"bytes"

	"github.com/midbel/readelf/rw"
)

const IdentLen = 16

var Magic = []byte{0x7F, 0x45, 0x4c, 0x46}

const (
	classByte   = 4
	dataByte    = 5
	versionByte = 6
	osabiByte   = 7
	abiverByte  = 8
)

const (
	Class32 = 1
	Class64 = 2
)

const (
	DataLSB = 1
	DataMSB = 2
)

const CurrentVersion = 1

type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	if e == LittleEndian {
		return "little endian"
	}
	return "big endian"
}

// Ident is the identification prefix of an ELF file. It tells how every
// following field of the file has to be decoded.
type Ident struct {
	Class      int
	Endian     Endian
	Version    uint8
	OSABI      uint8
	ABIVersion uint8
}

// ParseIdent decodes and validates the first 16 bytes of buf. Nothing else of
// the file is read before the identification is known to be valid.
func ParseIdent(buf []byte) (Ident, error) {
	var id Ident
	if len(buf) < IdentLen {
		return id, formatError("ident", uint64(len(buf)), ErrShort)
	}
	if !bytes.Equal(buf[:len(Magic)], Magic) {
		return id, formatError("magic", uint64(buf[0])<<24|uint64(buf[1])<<16|uint64(buf[2])<<8|uint64(buf[3]), ErrMagic)
	}
	switch c := buf[classByte]; c {
	case Class32:
		id.Class = rw.Class32
	case Class64:
		id.Class = rw.Class64
	default:
		return id, formatError("class", uint64(c), ErrClass)
	}
	switch d := buf[dataByte]; d {
	case DataLSB:
		id.Endian = LittleEndian
	case DataMSB:
		id.Endian = BigEndian
	default:
		return id, formatError("data", uint64(d), ErrData)
	}
	if v := buf[versionByte]; v != CurrentVersion {
		return id, formatError("version", uint64(v), ErrVersion)
	}
	id.Version = buf[versionByte]
	id.OSABI = buf[osabiByte]
	id.ABIVersion = buf[abiverByte]
	return id, nil
}

func (i Ident) Is32() bool {
	return i.Class == rw.Class32
}

func (i Ident) Is64() bool {
	return i.Class == rw.Class64
}

func (i Ident) Layout() rw.Layout {
	return rw.Layout{
		Class:  i.Class,
		Little: i.Endian == LittleEndian,
	}
}

func (i Ident) ClassName() string {
	if i.Is32() {
		return "ELF32"
	}
	return "ELF64"
}

func (i Ident) VersionName() string {
	if i.Version == CurrentVersion {
		return "current"
	}
	return ""
}

// OSABIName only knows the System V value. Vendor specific ABIs are reported
// with a generic label.
func (i Ident) OSABIName() string {
	if i.OSABI == 0 {
		return "unspecified"
	}
	return "some"
}
