// Package source turns program files into executable programs. Two
// encodings are understood: the XML representation and the textual
// assembly form.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"ippvm/types"
	"ippvm/vm"
)

// Format selects a source encoding
type Format int

const (
	FormatAuto Format = iota
	FormatXML
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatXML:
		return "xml"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat converts a format name to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "xml":
		return FormatXML, nil
	case "text", "ippcode", "ippcode24":
		return FormatText, nil
	default:
		return FormatAuto, fmt.Errorf("unknown source format %q", s)
	}
}

// Read decodes instruction records from r. FormatAuto picks XML when the
// first non-blank character is '<'.
func Read(r io.Reader, format Format) ([]vm.SourceInstruction, error) {
	records, _, err := read(r, format)
	return records, err
}

func read(r io.Reader, format Format) ([]vm.SourceInstruction, int, error) {
	if format == FormatAuto {
		br := bufio.NewReader(r)
		format = sniff(br)
		r = br
	}

	switch format {
	case FormatXML:
		return readXML(r)
	case FormatText:
		return readText(r)
	default:
		return nil, 0, types.NewError(types.E_INTERNAL, "unsupported format %s", format)
	}
}

// Load reads a source and builds the program
func Load(r io.Reader, format Format) (*vm.Program, error) {
	records, comments, err := read(r, format)
	if err != nil {
		return nil, err
	}
	prog, err := vm.NewProgram(records)
	if err != nil {
		return nil, err
	}
	prog.Comments = comments
	return prog, nil
}

// LoadString is Load over an in-memory source
func LoadString(src string, format Format) (*vm.Program, error) {
	return Load(strings.NewReader(src), format)
}

var bom = []byte("\ufeff")

func sniff(br *bufio.Reader) Format {
	for n := 1; ; n++ {
		peek, err := br.Peek(n)
		if len(peek) < n {
			return FormatText
		}
		if len(peek) < len(bom) && bytes.HasPrefix(bom, peek) {
			continue
		}
		trimmed := bytes.TrimLeft(bytes.TrimPrefix(peek, bom), " \t\r\n")
		if len(trimmed) > 0 {
			if trimmed[0] == '<' {
				return FormatXML
			}
			return FormatText
		}
		if err != nil {
			return FormatText
		}
	}
}
