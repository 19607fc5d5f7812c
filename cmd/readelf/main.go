package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/template"

	"github.com/midbel/cli"
	"github.com/midbel/readelf"
	"github.com/midbel/textwrap"
	"golang.org/x/sync/errgroup"
)

const about = `{{.Name}} decodes the structure of ELF object files (file header, section headers, symbol table and string tables) and disassembles a small subset of x86 instructions. Static libraries (ar archives) are accepted too: every object of the archive is inspected.`

const helpText = `{{.About}}

Usage:

  {{.Name}} command [arguments] <file...>

The commands are:

{{range .Commands}}{{printf "  %-9s %s" .String .Short}}
{{end}}

Use {{.Name}} [command] -h for more information about its usage.
`

var commands = []*cli.Command{
	{
		Usage:   "dump [-v] <file...>",
		Short:   "print every section with an hexadecimal dump of its content",
		Run:     runDump,
		Default: true,
	},
	{
		Usage: "header <file...>",
		Short: "print the file header",
		Alias: []string{"info"},
		Run:   runHeader,
	},
	{
		Usage: "sections [-x] <file...>",
		Short: "print the section header table",
		Alias: []string{"list"},
		Run:   runSections,
	},
	{
		Usage: "symbols <file...>",
		Short: "print the symbol table",
		Alias: []string{"syms"},
		Run:   runSymbols,
	},
	{
		Usage: "disasm [-s <section>] <file...>",
		Short: "disassemble a section (.text by default)",
		Run:   runDisasm,
	},
}

func main() {
	log.SetFlags(0)
	cli.RunAndExit(commands, usage)
}

func usage() {
	var (
		name = filepath.Base(os.Args[0])
		buf  bytes.Buffer
	)
	template.Must(template.New("about").Parse(about)).Execute(&buf, struct{ Name string }{Name: name})
	data := struct {
		Name     string
		About    string
		Commands []*cli.Command
	}{
		Name:     name,
		About:    textwrap.Wrap(buf.String()),
		Commands: commands,
	}
	t := template.Must(template.New("help").Parse(helpText))
	t.Execute(os.Stderr, data)

	os.Exit(2)
}

// target is a parsed ELF image: a file given on the command line or a
// member of an archive.
type target struct {
	Name string
	*readelf.File
}

// loadFiles parses every file concurrently. Targets are returned in the
// order of the files.
func loadFiles(files []string) ([]target, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no file given")
	}
	var (
		g    errgroup.Group
		sets = make([][]target, len(files))
	)
	for i, a := range files {
		i, file := i, a
		g.Go(func() error {
			ts, err := load(file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			sets[i] = ts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var list []target
	for _, ts := range sets {
		list = append(list, ts...)
	}
	return list, nil
}

func load(file string) ([]target, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if !readelf.IsArchive(buf) {
		f, err := readelf.Parse(buf)
		if err != nil {
			return nil, err
		}
		return []target{{Name: file, File: f}}, nil
	}
	members, err := readelf.ReadArchive(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	var list []target
	for _, m := range members {
		list = append(list, target{
			Name: fmt.Sprintf("%s(%s)", file, m.Name),
			File: m.File,
		})
	}
	return list, nil
}

func printTitle(ts []target, t target) {
	if len(ts) > 1 {
		fmt.Printf("%s:\n", t.Name)
	}
}
