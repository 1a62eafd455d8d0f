package vm

import (
	"ippvm/types"
)

// Arithmetic operations

func (vm *VM) executeArithmetic(ins *Instruction) error {
	a, err := vm.intValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.intValue(ins, ins.Args[2])
	if err != nil {
		return err
	}

	var result int64
	switch ins.Op {
	case OP_ADD:
		result = a + b
	case OP_SUB:
		result = a - b
	case OP_MUL:
		result = a * b
	case OP_IDIV:
		if b == 0 {
			return types.NewError(types.E_OPVALUE, "division by zero")
		}
		result = a / b
	}

	return vm.store(ins.Args[0], types.NewInt(result))
}

// Relational operations

func (vm *VM) executeCompare(ins *Instruction) error {
	a, err := vm.value(ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.value(ins.Args[2])
	if err != nil {
		return err
	}

	var result bool
	switch ins.Op {
	case OP_EQ:
		result, err = equalValues(ins.Op, a, b)
	case OP_LT:
		result, err = lessValues(ins.Op, a, b)
	case OP_GT:
		result, err = lessValues(ins.Op, b, a)
	}
	if err != nil {
		return err
	}

	return vm.store(ins.Args[0], types.NewBool(result))
}

func (vm *VM) executeConditionalJump(ins *Instruction) error {
	target, err := vm.label(ins.Args[0])
	if err != nil {
		return err
	}
	a, err := vm.value(ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.value(ins.Args[2])
	if err != nil {
		return err
	}

	equal, err := equalValues(ins.Op, a, b)
	if err != nil {
		return err
	}
	if equal == (ins.Op == OP_JUMPIFEQ) {
		vm.PC = target
	}
	return nil
}

// equalValues compares two values of the same type. Nil may be compared with
// anything and equals only nil.
func equalValues(op OpCode, a, b types.Value) (bool, error) {
	if a.Type() == types.TYPE_NIL || b.Type() == types.TYPE_NIL {
		return a.Type() == b.Type(), nil
	}
	if a.Type() != b.Type() {
		return false, types.NewError(types.E_OPTYPE, "%s cannot compare %s with %s", op, a.Type(), b.Type())
	}
	return a.Equal(b), nil
}

// lessValues orders two values of the same non-nil type: ints numerically,
// strings by code point, false before true
func lessValues(op OpCode, a, b types.Value) (bool, error) {
	if a.Type() == types.TYPE_NIL || b.Type() == types.TYPE_NIL {
		return false, types.NewError(types.E_OPTYPE, "%s does not accept nil", op)
	}
	if a.Type() != b.Type() {
		return false, types.NewError(types.E_OPTYPE, "%s cannot compare %s with %s", op, a.Type(), b.Type())
	}

	switch av := a.(type) {
	case types.IntValue:
		return av.Val < b.(types.IntValue).Val, nil
	case types.StrValue:
		return av.Value() < b.(types.StrValue).Value(), nil
	case types.BoolValue:
		return !av.Val && b.(types.BoolValue).Val, nil
	}
	return false, types.NewError(types.E_OPTYPE, "%s cannot order %s", op, a.Type())
}

// Boolean operations

func (vm *VM) executeLogic(ins *Instruction) error {
	a, err := vm.boolValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.boolValue(ins, ins.Args[2])
	if err != nil {
		return err
	}

	result := a && b
	if ins.Op == OP_OR {
		result = a || b
	}
	return vm.store(ins.Args[0], types.NewBool(result))
}

func (vm *VM) executeNot(ins *Instruction) error {
	a, err := vm.boolValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	return vm.store(ins.Args[0], types.NewBool(!a))
}

// Type introspection

func (vm *VM) executeType(ins *Instruction) error {
	v, err := vm.resolve(ins.Args[1])
	if err != nil {
		return err
	}
	name := ""
	if !types.IsUndefined(v) {
		name = v.Type().String()
	}
	return vm.store(ins.Args[0], types.NewStr(name))
}

// Data stack

func (vm *VM) executePops(ins *Instruction) error {
	dest := ins.Args[0]
	// The destination is checked first so a failed POPS leaves the stack intact.
	if _, err := vm.Memory.Read(dest.Frame, dest.Name); err != nil {
		return err
	}
	v, err := vm.Memory.PopOperand()
	if err != nil {
		return err
	}
	return vm.store(dest, v)
}

// Termination

func (vm *VM) executeExit(ins *Instruction) error {
	code, err := vm.intValue(ins, ins.Args[0])
	if err != nil {
		return err
	}
	if code < 0 || code > 9 {
		return types.NewError(types.E_OPVALUE, "exit code %d out of range 0-9", code)
	}
	return ExitSignal{Code: int(code)}
}

// Typed operand helpers

func (vm *VM) intValue(ins *Instruction, arg Operand) (int64, error) {
	v, err := vm.value(arg)
	if err != nil {
		return 0, err
	}
	i, ok := v.(types.IntValue)
	if !ok {
		return 0, types.NewError(types.E_OPTYPE, "%s expects int, got %s", ins.Op, v.Type())
	}
	return i.Val, nil
}

func (vm *VM) boolValue(ins *Instruction, arg Operand) (bool, error) {
	v, err := vm.value(arg)
	if err != nil {
		return false, err
	}
	b, ok := v.(types.BoolValue)
	if !ok {
		return false, types.NewError(types.E_OPTYPE, "%s expects bool, got %s", ins.Op, v.Type())
	}
	return b.Val, nil
}

func (vm *VM) strValue(ins *Instruction, arg Operand) (types.StrValue, error) {
	v, err := vm.value(arg)
	if err != nil {
		return types.StrValue{}, err
	}
	s, ok := v.(types.StrValue)
	if !ok {
		return types.StrValue{}, types.NewError(types.E_OPTYPE, "%s expects string, got %s", ins.Op, v.Type())
	}
	return s, nil
}
