package vm

import "strings"

// OpCode represents an IPPcode24 instruction
type OpCode byte

// Frames and function calls
const (
	OP_MOVE        OpCode = iota // MOVE ⟨var⟩ ⟨symb⟩
	OP_CREATEFRAME               // Create a fresh temporary frame
	OP_PUSHFRAME                 // Move TF onto the local frame stack
	OP_POPFRAME                  // Move the top local frame back to TF
	OP_DEFVAR                    // DEFVAR ⟨var⟩
	OP_CALL                      // CALL ⟨label⟩
	OP_RETURN                    // Return to the address on the call stack
)

// Data stack
const (
	OP_PUSHS OpCode = OP_RETURN + 1 + iota // PUSHS ⟨symb⟩
	OP_POPS                                // POPS ⟨var⟩
)

// Arithmetic, relational, boolean and conversion
const (
	OP_ADD      OpCode = OP_POPS + 1 + iota // ADD ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_SUB                                  // SUB ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_MUL                                  // MUL ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_IDIV                                 // IDIV ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_LT                                   // LT ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_GT                                   // GT ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_EQ                                   // EQ ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_AND                                  // AND ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_OR                                   // OR ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_NOT                                  // NOT ⟨var⟩ ⟨symb⟩
	OP_INT2CHAR                             // INT2CHAR ⟨var⟩ ⟨symb⟩
	OP_STRI2INT                             // STRI2INT ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
)

// Input/output
const (
	OP_READ  OpCode = OP_STRI2INT + 1 + iota // READ ⟨var⟩ ⟨type⟩
	OP_WRITE                                 // WRITE ⟨symb⟩
)

// Strings
const (
	OP_CONCAT  OpCode = OP_WRITE + 1 + iota // CONCAT ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_STRLEN                               // STRLEN ⟨var⟩ ⟨symb⟩
	OP_GETCHAR                              // GETCHAR ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_SETCHAR                              // SETCHAR ⟨var⟩ ⟨symb1⟩ ⟨symb2⟩
)

// Types
const (
	OP_TYPE OpCode = OP_SETCHAR + 1 + iota // TYPE ⟨var⟩ ⟨symb⟩
)

// Control flow
const (
	OP_LABEL     OpCode = OP_TYPE + 1 + iota // LABEL ⟨label⟩
	OP_JUMP                                  // JUMP ⟨label⟩
	OP_JUMPIFEQ                              // JUMPIFEQ ⟨label⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_JUMPIFNEQ                             // JUMPIFNEQ ⟨label⟩ ⟨symb1⟩ ⟨symb2⟩
	OP_EXIT                                  // EXIT ⟨symb⟩
)

// Debugging
const (
	OP_DPRINT OpCode = OP_EXIT + 1 + iota // DPRINT ⟨symb⟩
	OP_BREAK                              // Dump interpreter state to stderr
)

// ArgClass describes which operand kinds an instruction accepts in a position
type ArgClass int

const (
	ArgVar   ArgClass = iota // variable only
	ArgSymb                  // variable or literal
	ArgLabel                 // label name
	ArgType                  // type keyword
)

func (c ArgClass) String() string {
	switch c {
	case ArgVar:
		return "var"
	case ArgSymb:
		return "symb"
	case ArgLabel:
		return "label"
	case ArgType:
		return "type"
	default:
		return "unknown"
	}
}

// OpCodeNames maps opcodes to their source mnemonics
var OpCodeNames = map[OpCode]string{
	OP_MOVE:        "MOVE",
	OP_CREATEFRAME: "CREATEFRAME",
	OP_PUSHFRAME:   "PUSHFRAME",
	OP_POPFRAME:    "POPFRAME",
	OP_DEFVAR:      "DEFVAR",
	OP_CALL:        "CALL",
	OP_RETURN:      "RETURN",
	OP_PUSHS:       "PUSHS",
	OP_POPS:        "POPS",
	OP_ADD:         "ADD",
	OP_SUB:         "SUB",
	OP_MUL:         "MUL",
	OP_IDIV:        "IDIV",
	OP_LT:          "LT",
	OP_GT:          "GT",
	OP_EQ:          "EQ",
	OP_AND:         "AND",
	OP_OR:          "OR",
	OP_NOT:         "NOT",
	OP_INT2CHAR:    "INT2CHAR",
	OP_STRI2INT:    "STRI2INT",
	OP_READ:        "READ",
	OP_WRITE:       "WRITE",
	OP_CONCAT:      "CONCAT",
	OP_STRLEN:      "STRLEN",
	OP_GETCHAR:     "GETCHAR",
	OP_SETCHAR:     "SETCHAR",
	OP_TYPE:        "TYPE",
	OP_LABEL:       "LABEL",
	OP_JUMP:        "JUMP",
	OP_JUMPIFEQ:    "JUMPIFEQ",
	OP_JUMPIFNEQ:   "JUMPIFNEQ",
	OP_EXIT:        "EXIT",
	OP_DPRINT:      "DPRINT",
	OP_BREAK:       "BREAK",
}

var (
	sigNone      = []ArgClass{}
	sigVar       = []ArgClass{ArgVar}
	sigSymb      = []ArgClass{ArgSymb}
	sigLabel     = []ArgClass{ArgLabel}
	sigVarSymb   = []ArgClass{ArgVar, ArgSymb}
	sigVarType   = []ArgClass{ArgVar, ArgType}
	sigVarSymb2  = []ArgClass{ArgVar, ArgSymb, ArgSymb}
	sigLabelSymb = []ArgClass{ArgLabel, ArgSymb, ArgSymb}
)

// Signatures lists the operand classes each opcode takes, in order
var Signatures = map[OpCode][]ArgClass{
	OP_MOVE:        sigVarSymb,
	OP_CREATEFRAME: sigNone,
	OP_PUSHFRAME:   sigNone,
	OP_POPFRAME:    sigNone,
	OP_DEFVAR:      sigVar,
	OP_CALL:        sigLabel,
	OP_RETURN:      sigNone,
	OP_PUSHS:       sigSymb,
	OP_POPS:        sigVar,
	OP_ADD:         sigVarSymb2,
	OP_SUB:         sigVarSymb2,
	OP_MUL:         sigVarSymb2,
	OP_IDIV:        sigVarSymb2,
	OP_LT:          sigVarSymb2,
	OP_GT:          sigVarSymb2,
	OP_EQ:          sigVarSymb2,
	OP_AND:         sigVarSymb2,
	OP_OR:          sigVarSymb2,
	OP_NOT:         sigVarSymb,
	OP_INT2CHAR:    sigVarSymb,
	OP_STRI2INT:    sigVarSymb2,
	OP_READ:        sigVarType,
	OP_WRITE:       sigSymb,
	OP_CONCAT:      sigVarSymb2,
	OP_STRLEN:      sigVarSymb,
	OP_GETCHAR:     sigVarSymb2,
	OP_SETCHAR:     sigVarSymb2,
	OP_TYPE:        sigVarSymb,
	OP_LABEL:       sigLabel,
	OP_JUMP:        sigLabel,
	OP_JUMPIFEQ:    sigLabelSymb,
	OP_JUMPIFNEQ:   sigLabelSymb,
	OP_EXIT:        sigSymb,
	OP_DPRINT:      sigSymb,
	OP_BREAK:       sigNone,
}

var opCodesByName = func() map[string]OpCode {
	m := make(map[string]OpCode, len(OpCodeNames))
	for op, name := range OpCodeNames {
		m[name] = op
	}
	return m
}()

// String returns the mnemonic of an opcode
func (op OpCode) String() string {
	if name, ok := OpCodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Signature returns the operand classes of an opcode
func (op OpCode) Signature() []ArgClass {
	return Signatures[op]
}

// LookupOpCode finds an opcode by mnemonic. Mnemonics are case-insensitive.
func LookupOpCode(name string) (OpCode, bool) {
	op, ok := opCodesByName[strings.ToUpper(name)]
	return op, ok
}
