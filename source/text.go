package source

import (
	"bufio"
	"io"
	"strings"

	"ippvm/types"
	"ippvm/vm"
)

// Header is the mandatory first line of a textual program
const Header = ".IPPcode24"

// ReadText decodes a program in textual form:
//
//	.IPPcode24
//	DEFVAR GF@x        # comment
//	MOVE GF@x string@hello\032world
//	WRITE GF@x
//
// Instructions get consecutive order keys starting at 1. Whether a bare word
// is a label or a type keyword follows from the opcode's operand classes.
func ReadText(r io.Reader) ([]vm.SourceInstruction, error) {
	records, _, err := readText(r)
	return records, err
}

// readText is ReadText that also counts comments
func readText(r io.Reader) ([]vm.SourceInstruction, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []vm.SourceInstruction
	headerSeen := false
	lineNo := 0
	comments := 0

	for scanner.Scan() {
		lineNo++
		code, hasComment := stripComment(scanner.Text())
		if hasComment {
			comments++
		}
		fields := strings.Fields(code)
		if len(fields) == 0 {
			continue
		}

		if !headerSeen {
			if len(fields) != 1 || !strings.EqualFold(fields[0], Header) {
				return nil, 0, types.NewError(types.E_STRUCT, "line %d: missing %s header", lineNo, Header)
			}
			headerSeen = true
			continue
		}

		ins, err := decodeTextLine(fields, lineNo)
		if err != nil {
			return nil, 0, err
		}
		ins.Order = int64(len(out) + 1)
		out = append(out, ins)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, types.NewError(types.E_INFILE, "reading source: %v", err)
	}
	if !headerSeen {
		return nil, 0, types.NewError(types.E_STRUCT, "missing %s header", Header)
	}

	return out, comments, nil
}

func stripComment(line string) (string, bool) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx], true
	}
	return line, false
}

func decodeTextLine(fields []string, lineNo int) (vm.SourceInstruction, error) {
	op, ok := vm.LookupOpCode(fields[0])
	if !ok {
		return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "line %d: unknown instruction %q", lineNo, fields[0])
	}

	sig := op.Signature()
	args := fields[1:]
	if len(args) != len(sig) {
		return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "line %d: %s expects %d operands, got %d",
			lineNo, op, len(sig), len(args))
	}

	ins := vm.SourceInstruction{OpCode: op.String(), Operands: make([]vm.SourceOperand, len(args))}
	for i, class := range sig {
		operand, err := classifyToken(args[i], class)
		if err != nil {
			return vm.SourceInstruction{}, types.NewError(types.E_STRUCT, "line %d: %v", lineNo, err)
		}
		ins.Operands[i] = operand
	}
	return ins, nil
}

func classifyToken(token string, class vm.ArgClass) (vm.SourceOperand, error) {
	switch class {
	case vm.ArgVar:
		return vm.SourceOperand{Kind: "var", Text: token}, nil
	case vm.ArgLabel:
		return vm.SourceOperand{Kind: "label", Text: token}, nil
	case vm.ArgType:
		return vm.SourceOperand{Kind: "type", Text: token}, nil
	}

	prefix, rest, ok := strings.Cut(token, "@")
	if !ok {
		return vm.SourceOperand{}, types.NewError(types.E_STRUCT, "operand %q is not a variable or constant", token)
	}
	if _, isFrame := vm.FrameFromString(prefix); isFrame {
		return vm.SourceOperand{Kind: "var", Text: token}, nil
	}
	return vm.SourceOperand{Kind: prefix, Text: rest}, nil
}
