package source

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"ippvm/types"
	"ippvm/vm"
)

// Language is the value required in the program element's language attribute
const Language = "IPPcode24"

type xmlProgram struct {
	XMLName  xml.Name
	Attrs    []xml.Attr       `xml:",any,attr"`
	Text     string           `xml:",chardata"`
	Children []xmlInstruction `xml:",any"`
}

type xmlInstruction struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Args    []xmlArg   `xml:",any"`
}

var argIndex = map[string]int{"arg1": 1, "arg2": 2, "arg3": 3}

type xmlArg struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nested  []xml.Name `xml:",any"`
}

// ReadXML decodes an XML program:
//
//	<program language="IPPcode24">
//	  <instruction order="1" opcode="WRITE">
//	    <arg1 type="string">hello</arg1>
//	  </instruction>
//	</program>
//
// Malformed XML fails with E_XMLFORMAT, unexpected structure with E_STRUCT.
func ReadXML(r io.Reader) ([]vm.SourceInstruction, error) {
	records, _, err := readXML(r)
	return records, err
}

// readXML decodes an XML program and also reports how many comments it holds
func readXML(r io.Reader) ([]vm.SourceInstruction, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, types.NewError(types.E_INFILE, "reading source: %v", err)
	}
	comments, err := scanXML(data)
	if err != nil {
		return nil, 0, err
	}

	var prog xmlProgram
	if err := xml.Unmarshal(data, &prog); err != nil {
		return nil, 0, types.NewError(types.E_XMLFORMAT, "decoding XML: %v", err)
	}

	if prog.XMLName.Local != "program" {
		return nil, 0, types.NewError(types.E_STRUCT, "expected <program> root, got <%s>", prog.XMLName.Local)
	}
	if err := checkProgramAttrs(prog.Attrs); err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(prog.Text) != "" {
		return nil, 0, types.NewError(types.E_STRUCT, "unexpected text in <program>")
	}

	out := make([]vm.SourceInstruction, 0, len(prog.Children))
	for _, child := range prog.Children {
		ins, err := decodeXMLInstruction(child)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ins)
	}
	return out, comments, nil
}

// scanXML checks that data is a well-formed document with exactly one root
// element and nothing but whitespace, comments and processing instructions
// around it. It returns the number of comments.
func scanXML(data []byte) (int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth, roots, comments := 0, 0, 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, types.NewError(types.E_XMLFORMAT, "%v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return 0, types.NewError(types.E_XMLFORMAT, "second root element <%s>", t.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return 0, types.NewError(types.E_XMLFORMAT, "text outside the root element")
			}
		case xml.Comment:
			comments++
		case xml.Directive:
			if roots > 0 {
				return 0, types.NewError(types.E_XMLFORMAT, "directive after the root element")
			}
		}
	}

	if roots == 0 {
		return 0, types.NewError(types.E_XMLFORMAT, "no root element")
	}
	return comments, nil
}

func checkProgramAttrs(attrs []xml.Attr) error {
	language := ""
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "language":
			language = attr.Value
		case "name", "description":
		default:
			return types.NewError(types.E_STRUCT, "unexpected program attribute %q", attr.Name.Local)
		}
	}
	if !strings.EqualFold(language, Language) {
		return types.NewError(types.E_STRUCT, "invalid program language %q", language)
	}
	return nil
}

func decodeXMLInstruction(el xmlInstruction) (vm.SourceInstruction, error) {
	if el.XMLName.Local != "instruction" {
		return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "expected <instruction>, got <%s>", el.XMLName.Local)
	}

	var order int64
	var opcode string
	var hasOrder, hasOpcode bool
	for _, attr := range el.Attrs {
		switch attr.Name.Local {
		case "order":
			text := strings.TrimSpace(attr.Value)
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil || !isUnsigned(text) {
				return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "instruction order %q is not a number", attr.Value)
			}
			order, hasOrder = n, true
		case "opcode":
			opcode, hasOpcode = strings.TrimSpace(attr.Value), true
		default:
			return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "unexpected instruction attribute %q", attr.Name.Local)
		}
	}
	if !hasOrder {
		return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "instruction without order")
	}
	if !hasOpcode {
		return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "instruction %d without opcode", order)
	}

	if strings.TrimSpace(el.Text) != "" {
		return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "instruction %d: unexpected text", order)
	}

	ins := vm.SourceInstruction{Order: order, OpCode: opcode}

	byIndex := make(map[int]vm.SourceOperand, len(el.Args))
	for _, arg := range el.Args {
		idx, operand, err := decodeXMLArg(arg)
		if err != nil {
			return vm.SourceInstruction{}, fmt.Errorf("instruction %d: %w", order, err)
		}
		if _, dup := byIndex[idx]; dup {
			return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "instruction %d: duplicate <arg%d>", order, idx)
		}
		byIndex[idx] = operand
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i+1 {
			return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "instruction %d: missing <arg%d>", order, i+1)
		}
		ins.Operands = append(ins.Operands, byIndex[idx])
	}

	return ins, nil
}

func decodeXMLArg(arg xmlArg) (int, vm.SourceOperand, error) {
	name := arg.XMLName.Local
	idx, ok := argIndex[name]
	if !ok {
		return 0, vm.SourceOperand{}, types.NewError(types.E_STRUCT, "unexpected element <%s>", name)
	}
	if len(arg.Nested) > 0 {
		return 0, vm.SourceOperand{}, types.NewError(types.E_STRUCT, "<%s> must contain only text", name)
	}

	kind := ""
	for _, attr := range arg.Attrs {
		if attr.Name.Local != "type" {
			return 0, vm.SourceOperand{}, types.NewError(types.E_STRUCT, "unexpected <%s> attribute %q", name, attr.Name.Local)
		}
		kind = attr.Value
	}
	if kind == "" {
		return 0, vm.SourceOperand{}, types.NewError(types.E_STRUCT, "<%s> without type", name)
	}

	return idx, vm.SourceOperand{Kind: kind, Text: strings.TrimSpace(arg.Text)}, nil
}

func isUnsigned(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
