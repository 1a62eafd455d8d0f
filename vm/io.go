package vm

import (
	"fmt"

	"github.com/kr/pretty"

	"ippvm/types"
)

// Input supplies values to READ. A missing or malformed value is reported
// with ok == false rather than an error.
type Input interface {
	ReadInt() (int64, bool)
	ReadString() (string, bool)
	ReadBool() (bool, bool)
}

// Output receives values from WRITE, DPRINT and BREAK
type Output interface {
	WriteInt(int64) error
	WriteString(string) error
	WriteBool(bool) error
}

func (vm *VM) executeRead(ins *Instruction) error {
	dest := ins.Args[0]
	if _, err := vm.Memory.Read(dest.Frame, dest.Name); err != nil {
		return err
	}

	var v types.Value = types.Nil
	switch ins.Args[1].Name {
	case "int":
		if n, ok := vm.readInt(); ok {
			v = types.NewInt(n)
		}
	case "string":
		if s, ok := vm.readString(); ok {
			v = types.NewStr(s)
		}
	case "bool":
		if b, ok := vm.readBool(); ok {
			v = types.NewBool(b)
		}
	default:
		return types.NewError(types.E_OPVALUE, "READ cannot read type %q", ins.Args[1].Name)
	}

	return vm.store(dest, v)
}

func (vm *VM) readInt() (int64, bool) {
	if vm.Input == nil {
		return 0, false
	}
	return vm.Input.ReadInt()
}

func (vm *VM) readString() (string, bool) {
	if vm.Input == nil {
		return "", false
	}
	return vm.Input.ReadString()
}

func (vm *VM) readBool() (bool, bool) {
	if vm.Input == nil {
		return false, false
	}
	return vm.Input.ReadBool()
}

func (vm *VM) executeWrite(ins *Instruction) error {
	v, err := vm.value(ins.Args[0])
	if err != nil {
		return err
	}
	return emit(vm.Stdout, v)
}

func (vm *VM) executeDprint(ins *Instruction) error {
	v, err := vm.value(ins.Args[0])
	if err != nil {
		return err
	}
	return emit(vm.Stderr, v)
}

// emit writes a value in its output form; nil prints as the empty string
func emit(out Output, v types.Value) error {
	if out == nil {
		return nil
	}
	switch val := v.(type) {
	case types.IntValue:
		return out.WriteInt(val.Val)
	case types.BoolValue:
		return out.WriteBool(val.Val)
	case types.StrValue:
		return out.WriteString(val.Value())
	case types.NilValue:
		return out.WriteString("")
	default:
		return types.NewError(types.E_VALUE, "cannot print value of type %q", v.Type())
	}
}

// executeBreak dumps the interpreter state to the error stream
func (vm *VM) executeBreak(ins *Instruction) error {
	if vm.Stderr == nil {
		return nil
	}
	header := fmt.Sprintf("BREAK at position %d (order %d), %d instructions executed, %d local frames\n",
		vm.Current, ins.Order, vm.Executed, vm.Memory.FrameDepth())
	if err := vm.Stderr.WriteString(header); err != nil {
		return err
	}
	return vm.Stderr.WriteString(pretty.Sprint(vm.Memory.Snapshot()) + "\n")
}
