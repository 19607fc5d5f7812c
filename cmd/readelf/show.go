package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"text/template"

	"github.com/midbel/cli"
	"github.com/midbel/readelf"
	"github.com/midbel/readelf/text"
)

func runDump(cmd *cli.Command, args []string) error {
	verbose := cmd.Flag.Bool("v", false, "log each parsed file")
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	ts, err := loadFiles(cmd.Flag.Args())
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "[readelf] ", 0)
	for _, t := range ts {
		if *verbose {
			logger.Printf("%s: %s %s, %d sections, %d symbols", t.Name, t.Ident.ClassName(), t.Ident.Endian, len(t.Sections), len(t.Symbols))
		}
		printTitle(ts, t)
		if err := dumpSections(os.Stdout, t, true); err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
	}
	return nil
}

// dumpSections prints the name of every section and, with hex, its content.
// NOBITS sections have nothing in the file to dump.
func dumpSections(w io.Writer, t target, hex bool) error {
	for _, sh := range t.Sections {
		if sh.Empty() {
			continue
		}
		name, err := t.SectionName(sh)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "section %s:\n", name)
		if !hex || !sh.InFile() {
			continue
		}
		data, err := t.SectionData(sh)
		if err != nil {
			return err
		}
		if err := text.Dump(w, data, sh.Offset); err != nil {
			return err
		}
	}
	return nil
}

func runHeader(cmd *cli.Command, args []string) error {
	const meta = `{{with .Ident}}
Class                      : {{.ClassName}}
Data                       : {{.Endian}}
Version                    : {{.VersionName}}
OS/ABI                     : {{.OSABIName}}
ABI Version                : {{.ABIVersion}}
{{end}}
Type                       : {{.TypeName}}
Machine                    : {{.MachineName}}
Version                    : {{printf "%#x" .Version}}
Entry point address        : {{printf "%#x" .Entry}}
Start of program headers   : {{.Phoff}}
Start of section headers   : {{.Shoff}}
Flags                      : {{printf "%#x" .Flags}}
Size of ELF Header         : {{.Ehsize}}
Size of program headers    : {{.Phentsize}}
Number of program headers  : {{.Phnum}}
Size of section headers    : {{.Shentsize}}
Number of section headers  : {{.Shnum}}
Section header string index: {{.Shstrndx}}
`
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	ts, err := loadFiles(cmd.Flag.Args())
	if err != nil {
		return err
	}
	tpl, err := template.New("header").Parse(meta)
	if err != nil {
		return err
	}
	for _, t := range ts {
		printTitle(ts, t)
		if err := text.Execute(tpl, os.Stdout, t.Header); err != nil {
			return err
		}
	}
	return nil
}

func runSections(cmd *cli.Command, args []string) error {
	hex := cmd.Flag.Bool("x", false, "dump the content of the sections")
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	ts, err := loadFiles(cmd.Flag.Args())
	if err != nil {
		return err
	}
	for _, t := range ts {
		printTitle(ts, t)
		if *hex {
			if err := dumpSections(os.Stdout, t, true); err != nil {
				return fmt.Errorf("%s: %w", t.Name, err)
			}
			continue
		}
		if err := listSections(os.Stdout, t); err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
	}
	return nil
}

func listSections(ws io.Writer, t target) error {
	w := tabwriter.NewWriter(ws, 12, 2, 2, ' ', 0)
	defer w.Flush()
	for i, sh := range t.Sections {
		name, err := t.SectionName(sh)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "[%2d]\t%s\t%s\t%#x\t%d\n", i, name, sh.TypeName(), sh.Offset, sh.Size)
	}
	return nil
}

func runSymbols(cmd *cli.Command, args []string) error {
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	ts, err := loadFiles(cmd.Flag.Args())
	if err != nil {
		return err
	}
	for _, t := range ts {
		printTitle(ts, t)
		if err := listSymbols(os.Stdout, t); err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
	}
	return nil
}

func listSymbols(ws io.Writer, t target) error {
	w := tabwriter.NewWriter(ws, 12, 2, 2, ' ', 0)
	defer w.Flush()
	for i, sym := range t.Symbols {
		if sym.Empty() {
			continue
		}
		name, err := t.SymbolName(sym)
		if err != nil {
			return err
		}
		section, err := t.SectionName(t.SymbolSection(sym))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%#x\t%d\t%s\t%s\t%s\t%s\n", i, sym.Value, sym.Size, sym.Binding(), sym.Type(), section, name)
	}
	return nil
}

func runDisasm(cmd *cli.Command, args []string) error {
	section := cmd.Flag.String("s", readelf.TextSection, "section to disassemble")
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	ts, err := loadFiles(cmd.Flag.Args())
	if err != nil {
		return err
	}
	for _, t := range ts {
		printTitle(ts, t)
		lines, err := t.Disassemble(*section)
		for _, i := range lines {
			if i.IsLabel() {
				fmt.Println()
			}
			fmt.Println(i)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", t.Name, err)
		}
	}
	return nil
}
