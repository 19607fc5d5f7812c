package readelf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/midbel/tape/ar"
)

var arMagic = []byte("!<arch>\n")

// Member is an object file found in a static library.
type Member struct {
	Name string
	*File
}

func IsArchive(buf []byte) bool {
	return bytes.HasPrefix(buf, arMagic)
}

func OpenArchive(file string) ([]Member, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadArchive(r)
}

// ReadArchive parses every ELF object of an ar archive. The symbol index and
// the long names table written by the linkers are skipped.
func ReadArchive(r io.Reader) ([]Member, error) {
	rs, err := ar.NewReader(r)
	if err != nil {
		return nil, err
	}
	var list []Member
	for {
		h, err := rs.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		buf, err := io.ReadAll(io.LimitReader(rs, h.Size))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(h.Filename, "/")
		if skipMember(name) {
			continue
		}
		f, err := Parse(buf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		list = append(list, Member{
			Name: name,
			File: f,
		})
	}
	return list, nil
}

func skipMember(name string) bool {
	switch name {
	case "", "/", "__.SYMDEF", "__.SYMDEF SORTED", "/SYM64":
		return true
	default:
		return false
	}
}
