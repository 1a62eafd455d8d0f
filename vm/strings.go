package vm

import (
	"unicode/utf8"

	"ippvm/types"
)

// String operations. Indices count Unicode code points from zero.

func (vm *VM) executeInt2Char(ins *Instruction) error {
	code, err := vm.intValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	if code < 0 || code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
		return types.NewError(types.E_STRING, "invalid code point %d", code)
	}
	return vm.store(ins.Args[0], types.NewStr(string(rune(code))))
}

func (vm *VM) executeStri2Int(ins *Instruction) error {
	s, err := vm.strValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	idx, err := vm.intValue(ins, ins.Args[2])
	if err != nil {
		return err
	}
	runes := s.Runes()
	if err := checkIndex(ins.Op, idx, len(runes)); err != nil {
		return err
	}
	return vm.store(ins.Args[0], types.NewInt(int64(runes[idx])))
}

func (vm *VM) executeConcat(ins *Instruction) error {
	a, err := vm.strValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.strValue(ins, ins.Args[2])
	if err != nil {
		return err
	}
	return vm.store(ins.Args[0], types.NewStr(a.Value()+b.Value()))
}

func (vm *VM) executeStrlen(ins *Instruction) error {
	s, err := vm.strValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	return vm.store(ins.Args[0], types.NewInt(int64(s.Len())))
}

func (vm *VM) executeGetChar(ins *Instruction) error {
	s, err := vm.strValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	idx, err := vm.intValue(ins, ins.Args[2])
	if err != nil {
		return err
	}
	runes := s.Runes()
	if err := checkIndex(ins.Op, idx, len(runes)); err != nil {
		return err
	}
	return vm.store(ins.Args[0], types.NewStr(string(runes[idx])))
}

// executeSetChar replaces the character at an index of the string held by
// the destination with the first character of the third operand
func (vm *VM) executeSetChar(ins *Instruction) error {
	target, err := vm.strValue(ins, ins.Args[0])
	if err != nil {
		return err
	}
	idx, err := vm.intValue(ins, ins.Args[1])
	if err != nil {
		return err
	}
	repl, err := vm.strValue(ins, ins.Args[2])
	if err != nil {
		return err
	}

	runes := target.Runes()
	if err := checkIndex(ins.Op, idx, len(runes)); err != nil {
		return err
	}
	replRunes := repl.Runes()
	if len(replRunes) == 0 {
		return types.NewError(types.E_STRING, "%s with empty replacement string", ins.Op)
	}

	runes[idx] = replRunes[0]
	return vm.store(ins.Args[0], types.NewStr(string(runes)))
}

func checkIndex(op OpCode, idx int64, length int) error {
	if idx < 0 || idx >= int64(length) {
		return types.NewError(types.E_STRING, "%s index %d out of range [0, %d)", op, idx, length)
	}
	return nil
}
