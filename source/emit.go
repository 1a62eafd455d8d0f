package source

import (
	"encoding/xml"
	"fmt"
	"io"

	"ippvm/types"
	"ippvm/vm"
)

type xmlOutProgram struct {
	XMLName      xml.Name            `xml:"program"`
	Language     string              `xml:"language,attr"`
	Instructions []xmlOutInstruction `xml:"instruction"`
}

type xmlOutInstruction struct {
	Order  int64       `xml:"order,attr"`
	OpCode string      `xml:"opcode,attr"`
	Args   []xmlOutArg `xml:",any"`
}

type xmlOutArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// WriteXML renders prog in the XML source form that ReadXML accepts.
// Instructions are renumbered from 1 in execution order and literals keep
// their source text, escapes included.
func WriteXML(w io.Writer, prog *vm.Program) error {
	out := xmlOutProgram{Language: Language}
	for i, ins := range prog.Code {
		el := xmlOutInstruction{Order: int64(i + 1), OpCode: ins.Op.String()}
		for j, arg := range ins.Args {
			el.Args = append(el.Args, xmlOutArg{
				XMLName: xml.Name{Local: fmt.Sprintf("arg%d", j+1)},
				Type:    operandKind(arg),
				Text:    arg.Text,
			})
		}
		out.Instructions = append(out.Instructions, el)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return types.NewError(types.E_OUTFILE, "writing XML: %v", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(out); err != nil {
		return types.NewError(types.E_OUTFILE, "writing XML: %v", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return types.NewError(types.E_OUTFILE, "writing XML: %v", err)
	}
	return nil
}

func operandKind(arg vm.Operand) string {
	switch arg.Kind {
	case vm.KindVar:
		return "var"
	case vm.KindLiteral:
		return arg.Value.Type().String()
	case vm.KindLabel:
		return "label"
	default:
		return "type"
	}
}
