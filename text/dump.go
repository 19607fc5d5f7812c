package text

import (
	"bufio"
	"fmt"
	"io"
)

const (
	lineWidth = 16
	groupSize = 4
)

// Dump writes bs as lines of 16 bytes in hexadecimal followed by their ASCII
// form. pos is the offset printed in front of the first line.
func Dump(w io.Writer, bs []byte, pos uint64) error {
	ws := bufio.NewWriter(w)
	for len(bs) > 0 {
		n := lineWidth
		if len(bs) < n {
			n = len(bs)
		}
		dumpLine(ws, bs[:n], pos)
		bs = bs[n:]
		pos += lineWidth
	}
	return ws.Flush()
}

func dumpLine(w *bufio.Writer, bs []byte, pos uint64) {
	fmt.Fprintf(w, " %06x ", pos)
	for i := 0; i < lineWidth; i++ {
		if i < len(bs) {
			fmt.Fprintf(w, "%02x", bs[i])
		} else {
			w.WriteString("  ")
		}
		if i%groupSize == groupSize-1 {
			w.WriteByte(' ')
		}
	}
	w.WriteString("  ")
	for _, b := range bs {
		w.WriteByte(printable(b))
	}
	w.WriteByte('\n')
}

func printable(b byte) byte {
	if b > ' ' && b < 0x7f {
		return b
	}
	return '.'
}
