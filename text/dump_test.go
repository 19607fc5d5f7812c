package text

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"text/template"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	tests := []struct {
		Name  string
		Input []byte
		Pos   uint64
		Want  string
	}{
		{
			Name:  "full-line",
			Input: []byte("Hello, World!\x00\x01\x02"),
			Want:  " 000000 48656c6c 6f2c2057 6f726c64 21000102   Hello,.World!...\n",
		},
		{
			Name:  "short-line",
			Input: []byte("abcde"),
			Pos:   0x20,
			Want:  " 000020 61626364 65                           abcde\n",
		},
		{
			Name:  "many-lines",
			Input: []byte("\x7fELF\x02\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00\xff"),
			Pos:   0x1000,
			Want:  " 001000 7f454c46 02010100 00000000 00000000   .ELF............\n 001010 ff                                    .\n",
		},
		{
			Name: "empty",
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Dump(&buf, tt.Input, tt.Pos))
			assert.Equal(t, tt.Want, buf.String())
		})
	}
}

func TestExecute(t *testing.T) {
	tpl := template.Must(template.New("test").Parse(`{{range .}}
{{if .}}{{.}}{{end}}
{{end}}`))
	var buf bytes.Buffer
	require.NoError(t, Execute(tpl, &buf, []string{"first", "", "second"}))
	assert.Equal(t, "first\nsecond\n", buf.String())
}

func TestExecuteError(t *testing.T) {
	tpl := template.Must(template.New("test").Parse(`{{.Missing}}`))
	var buf strings.Builder
	assert.Error(t, Execute(tpl, &buf, 42))
}

func TestExecuteLongLines(t *testing.T) {
	tpl := template.Must(template.New("test").Parse(`{{range .}}{{.}}
{{end}}`))
	lines := []string{
		strings.Repeat("a", 70000),
		strings.Repeat("b", 70000),
	}

	done := make(chan error, 1)
	go func() {
		done <- Execute(tpl, io.Discard, lines)
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, bufio.ErrTooLong)
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return after the scanner failed")
	}
}
