package vm

import (
	"fmt"
	"sort"
	"strings"

	"ippvm/task"
	"ippvm/types"
)

// SourceOperand is an operand record as delivered by a source reader
type SourceOperand struct {
	Kind string // var, int, bool, string, nil, label, type
	Text string
}

// SourceInstruction is an instruction record as delivered by a source reader
type SourceInstruction struct {
	Order    int64
	OpCode   string
	Operands []SourceOperand
}

// Instruction is a decoded, validated instruction
type Instruction struct {
	Op    OpCode
	Order int64 // declared order key, kept for diagnostics
	Args  []Operand
}

// String renders the instruction in textual source form
func (ins *Instruction) String() string {
	parts := make([]string, 0, len(ins.Args)+1)
	parts = append(parts, ins.Op.String())
	for _, arg := range ins.Args {
		parts = append(parts, arg.String())
	}
	return strings.Join(parts, " ")
}

// Program is the executable form of a source: instructions sorted by order
// key and indexed densely from zero, plus the label table
type Program struct {
	Code     []Instruction
	Labels   map[string]int // label name -> index into Code
	Comments int            // comments seen by the source reader
}

// NewProgram validates source records and builds a Program. Structural
// problems fail with E_STRUCT, duplicate labels with E_SEMANTIC.
func NewProgram(src []SourceInstruction) (*Program, error) {
	seen := make(map[int64]bool, len(src))
	code := make([]Instruction, 0, len(src))

	for _, rec := range src {
		if rec.Order <= 0 {
			return nil, types.NewError(types.E_STRUCT, "invalid instruction order %d", rec.Order)
		}
		if seen[rec.Order] {
			return nil, types.NewError(types.E_STRUCT, "duplicate instruction order %d", rec.Order)
		}
		seen[rec.Order] = true

		ins, err := decodeInstruction(rec)
		if err != nil {
			return nil, err
		}
		code = append(code, ins)
	}

	sort.Slice(code, func(i, j int) bool {
		return code[i].Order < code[j].Order
	})

	labels := make(map[string]int)
	for i := range code {
		if code[i].Op != OP_LABEL {
			continue
		}
		name := code[i].Args[0].Name
		if _, dup := labels[name]; dup {
			return nil, types.NewError(types.E_SEMANTIC, "label %q redefined (order %d)", name, code[i].Order)
		}
		labels[name] = i
	}

	return &Program{Code: code, Labels: labels}, nil
}

func decodeInstruction(rec SourceInstruction) (Instruction, error) {
	op, ok := LookupOpCode(rec.OpCode)
	if !ok {
		return Instruction{}, types.NewError(types.E_STRUCT, "unknown opcode %q (order %d)", rec.OpCode, rec.Order)
	}

	sig := op.Signature()
	if len(rec.Operands) != len(sig) {
		return Instruction{}, types.NewError(types.E_STRUCT, "%s expects %d operands, got %d (order %d)",
			op, len(sig), len(rec.Operands), rec.Order)
	}

	args := make([]Operand, len(sig))
	for i, class := range sig {
		arg, err := ParseOperand(rec.Operands[i].Kind, rec.Operands[i].Text)
		if err != nil {
			return Instruction{}, fmt.Errorf("%s operand %d (order %d): %w", op, i+1, rec.Order, err)
		}
		if !arg.Accepts(class) {
			return Instruction{}, types.NewError(types.E_STRUCT, "%s operand %d: expected %s, got %s (order %d)",
				op, i+1, class, rec.Operands[i].Kind, rec.Order)
		}
		args[i] = arg
	}

	return Instruction{Op: op, Order: rec.Order, Args: args}, nil
}

// Label returns the code index of a label
func (p *Program) Label(name string) (int, bool) {
	idx, ok := p.Labels[name]
	return idx, ok
}

// EnclosingLabel returns the nearest label defined at or before pc, or ""
// when pc precedes every label
func (p *Program) EnclosingLabel(pc int) string {
	best := -1
	name := ""
	for label, idx := range p.Labels {
		if idx <= pc && idx > best {
			best = idx
			name = label
		}
	}
	return name
}

// Len returns the number of instructions
func (p *Program) Len() int {
	return len(p.Code)
}

// Stats counts labels and jumps. A jump is forward or backward by where its
// label is defined; RETURN counts only towards the total.
func (p *Program) Stats() task.SourceStats {
	stats := task.SourceStats{
		LOC:      len(p.Code),
		Comments: p.Comments,
		Labels:   len(p.Labels),
	}
	for i := range p.Code {
		ins := &p.Code[i]
		switch ins.Op {
		case OP_RETURN:
			stats.Jumps++
		case OP_JUMP, OP_JUMPIFEQ, OP_JUMPIFNEQ, OP_CALL:
			stats.Jumps++
			target, ok := p.Labels[ins.Args[0].Name]
			switch {
			case !ok:
				stats.BadJumps++
			case target > i:
				stats.FwJumps++
			default:
				stats.BackJumps++
			}
		}
	}
	return stats
}
