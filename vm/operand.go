package vm

import (
	"fmt"
	"strings"

	"ippvm/types"
)

// Frame identifies one of the three variable frames
type Frame int

const (
	FrameGlobal Frame = iota
	FrameLocal
	FrameTemp
)

// String returns the source prefix of the frame
func (f Frame) String() string {
	switch f {
	case FrameGlobal:
		return "GF"
	case FrameLocal:
		return "LF"
	case FrameTemp:
		return "TF"
	default:
		return "??"
	}
}

// FrameFromString converts "GF", "LF" or "TF" to a Frame
func FrameFromString(s string) (Frame, bool) {
	switch s {
	case "GF":
		return FrameGlobal, true
	case "LF":
		return FrameLocal, true
	case "TF":
		return FrameTemp, true
	default:
		return 0, false
	}
}

// OperandKind is the syntactic kind of an instruction argument
type OperandKind int

const (
	KindVar OperandKind = iota
	KindLiteral
	KindLabel
	KindType
)

// Operand is a parsed instruction argument
type Operand struct {
	Kind  OperandKind
	Frame Frame       // KindVar
	Name  string      // variable, label or type keyword name
	Value types.Value // KindLiteral, parsed once when the program is built
	Text  string      // literal text as written in the source
}

// VarRef creates a variable operand
func VarRef(frame Frame, name string) Operand {
	return Operand{Kind: KindVar, Frame: frame, Name: name, Text: frame.String() + "@" + name}
}

// Literal creates a constant operand
func Literal(v types.Value) Operand {
	text := v.String()
	if v.Type() == types.TYPE_NIL {
		text = "nil"
	}
	return Operand{Kind: KindLiteral, Value: v, Text: text}
}

// String renders the operand in textual source form
func (o Operand) String() string {
	switch o.Kind {
	case KindVar:
		return o.Frame.String() + "@" + o.Name
	case KindLiteral:
		return o.Value.Type().String() + "@" + o.Text
	default:
		return o.Name
	}
}

// Accepts reports whether the operand may appear where class is expected
func (o Operand) Accepts(class ArgClass) bool {
	switch class {
	case ArgVar:
		return o.Kind == KindVar
	case ArgSymb:
		return o.Kind == KindVar || o.Kind == KindLiteral
	case ArgLabel:
		return o.Kind == KindLabel
	case ArgType:
		return o.Kind == KindType
	default:
		return false
	}
}

// ParseOperand builds an Operand from a source record. kind is one of
// var, int, bool, string, nil, label or type.
func ParseOperand(kind, text string) (Operand, error) {
	switch kind {
	case "var":
		prefix, name, ok := strings.Cut(text, "@")
		if !ok || name == "" {
			return Operand{}, types.NewError(types.E_STRUCT, "malformed variable %q", text)
		}
		frame, ok := FrameFromString(prefix)
		if !ok {
			return Operand{}, types.NewError(types.E_STRUCT, "unknown frame %q in %q", prefix, text)
		}
		return VarRef(frame, name), nil

	case "label":
		if text == "" {
			return Operand{}, types.NewError(types.E_STRUCT, "empty label")
		}
		return Operand{Kind: KindLabel, Name: text, Text: text}, nil

	case "type":
		if _, ok := types.TypeFromString(text); !ok {
			return Operand{}, types.NewError(types.E_STRUCT, "invalid type keyword %q", text)
		}
		return Operand{Kind: KindType, Name: text, Text: text}, nil
	}

	t, ok := types.TypeFromString(kind)
	if !ok {
		return Operand{}, types.NewError(types.E_STRUCT, "unknown operand kind %q", kind)
	}
	v, err := types.ParseLiteral(t, text)
	if err != nil {
		return Operand{}, fmt.Errorf("operand %s@%s: %w", kind, text, err)
	}
	return Operand{Kind: KindLiteral, Value: v, Text: text}, nil
}
