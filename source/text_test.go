package source

import (
	"strings"
	"testing"

	"ippvm/types"
	"ippvm/vm"
)

func TestReadText(t *testing.T) {
	src := `# leading comment
.ippcode24
DEFVAR GF@x # declare
move GF@x string@a\035b
READ GF@y int
JUMPIFEQ end GF@x nil@nil

LABEL end
`
	records, comments, err := readText(strings.NewReader(src))
	if err != nil {
		t.Fatalf("readText() error: %v", err)
	}
	if comments != 2 {
		t.Errorf("expected 2 comments, got %d", comments)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 instructions, got %d", len(records))
	}

	for i, rec := range records {
		if rec.Order != int64(i+1) {
			t.Errorf("instruction %d has order %d", i, rec.Order)
		}
	}

	move := records[1]
	if move.OpCode != "MOVE" {
		t.Errorf("opcode should be normalised, got %q", move.OpCode)
	}
	if move.Operands[1] != (vm.SourceOperand{Kind: "string", Text: "a\\035b"}) {
		t.Errorf("unexpected literal %+v", move.Operands[1])
	}

	read := records[2]
	if read.Operands[1] != (vm.SourceOperand{Kind: "type", Text: "int"}) {
		t.Errorf("READ type operand = %+v", read.Operands[1])
	}

	jump := records[3]
	want := []vm.SourceOperand{
		{Kind: "label", Text: "end"},
		{Kind: "var", Text: "GF@x"},
		{Kind: "nil", Text: "nil"},
	}
	for i, w := range want {
		if jump.Operands[i] != w {
			t.Errorf("JUMPIFEQ operand %d = %+v, expected %+v", i+1, jump.Operands[i], w)
		}
	}
}

func TestReadTextErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing header", "WRITE int@1\n"},
		{"empty", ""},
		{"header with junk", ".IPPcode24 extra\n"},
		{"unknown opcode", ".IPPcode24\nFOO GF@x\n"},
		{"too few operands", ".IPPcode24\nMOVE GF@x\n"},
		{"too many operands", ".IPPcode24\nBREAK GF@x\n"},
		{"bare symbol", ".IPPcode24\nWRITE hello\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadText(strings.NewReader(tt.src))
			if types.CodeOf(err) != types.E_STRUCT {
				t.Errorf("expected E_STRUCT, got %v", err)
			}
		})
	}
}

func TestFormatDetection(t *testing.T) {
	prog, err := LoadString("  \n.IPPcode24\nWRITE int@1\n", FormatAuto)
	if err != nil {
		t.Fatalf("text auto-detect failed: %v", err)
	}
	if prog.Len() != 1 {
		t.Errorf("expected 1 instruction, got %d", prog.Len())
	}

	prog, err = LoadString("\n  <program language=\"IPPcode24\"><instruction order=\"1\" opcode=\"BREAK\"/></program>", FormatAuto)
	if err != nil {
		t.Fatalf("xml auto-detect failed: %v", err)
	}
	if prog.Code[0].Op != vm.OP_BREAK {
		t.Errorf("expected BREAK, got %s", prog.Code[0].Op)
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"": FormatAuto, "XML": FormatXML, "text": FormatText} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %s, %v", name, got, err)
		}
	}
	if _, err := ParseFormat("json"); err == nil {
		t.Error("ParseFormat(\"json\") should fail")
	}
}
