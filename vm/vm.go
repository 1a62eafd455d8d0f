package vm

import (
	"context"
	"errors"
	"fmt"

	"ippvm/task"
	"ippvm/trace"
	"ippvm/types"
)

// ExitSignal is returned by EXIT to stop the program with a chosen exit code.
// It is not a failure; Run converts it to a normal return.
type ExitSignal struct {
	Code int
}

func (e ExitSignal) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// VM executes a Program against its own Memory
type VM struct {
	Program  *Program
	Memory   *Memory
	Input    Input
	Stdout   Output
	Stderr   Output
	PC       int   // index of the next instruction
	Current  int   // index of the instruction being executed
	Executed int64 // instructions executed so far

	TrackVars bool // maintain MaxVars after every instruction
	MaxVars   int

	state task.State
	err   error
}

// NewVM creates a virtual machine for prog with fresh memory
func NewVM(prog *Program, in Input, stdout, stderr Output) *VM {
	return &VM{
		Program: prog,
		Memory:  NewMemory(),
		Input:   in,
		Stdout:  stdout,
		Stderr:  stderr,
		state:   task.StateCreated,
	}
}

// Run executes the program until it runs past the last instruction, EXIT
// is executed, an instruction fails or ctx is cancelled. It returns the
// process exit code; err is non-nil only for failures.
func (vm *VM) Run(ctx context.Context) (int, error) {
	vm.state = task.StateRunning

	for vm.PC < len(vm.Program.Code) {
		if err := ctx.Err(); err != nil {
			vm.state = task.StateKilled
			vm.err = types.NewError(types.E_INTERNAL, "execution interrupted: %v", err)
			return types.E_INTERNAL.ExitCode(), vm.err
		}

		if err := vm.Step(); err != nil {
			var exit ExitSignal
			if errors.As(err, &exit) {
				vm.state = task.StateCompleted
				trace.Exit(exit.Code, vm.Executed)
				return exit.Code, nil
			}

			ins := &vm.Program.Code[vm.Current]
			trace.Exception(vm.Current, ins.Order, ins.Op.String(), err)
			vm.state = task.StateFailed
			vm.err = fmt.Errorf("%s (order %d): %w", ins.Op, ins.Order, err)
			return types.CodeOf(err).ExitCode(), vm.err
		}
	}

	vm.state = task.StateCompleted
	trace.Exit(0, vm.Executed)
	return 0, nil
}

// Step executes a single instruction
func (vm *VM) Step() error {
	if vm.PC < 0 || vm.PC >= len(vm.Program.Code) {
		return types.NewError(types.E_INTERNAL, "program counter %d out of range", vm.PC)
	}

	ins := &vm.Program.Code[vm.PC]
	vm.Current = vm.PC
	vm.PC++
	vm.Executed++

	if trace.IsEnabled() {
		args := make([]string, len(ins.Args))
		for i, arg := range ins.Args {
			args[i] = arg.String()
		}
		trace.Step(vm.Current, ins.Order, ins.Op.String(), args)
	}

	if err := vm.Execute(ins); err != nil {
		return err
	}

	if vm.TrackVars {
		if n := vm.Memory.InitializedCount(); n > vm.MaxVars {
			vm.MaxVars = n
		}
	}
	return nil
}

// Execute dispatches an instruction
func (vm *VM) Execute(ins *Instruction) error {
	switch ins.Op {
	// Frames and variables
	case OP_DEFVAR:
		dest := ins.Args[0]
		return vm.Memory.Declare(dest.Frame, dest.Name)
	case OP_CREATEFRAME:
		vm.Memory.CreateFrame()
	case OP_PUSHFRAME:
		return vm.Memory.PushFrame()
	case OP_POPFRAME:
		return vm.Memory.PopFrame()
	case OP_MOVE:
		v, err := vm.value(ins.Args[1])
		if err != nil {
			return err
		}
		return vm.store(ins.Args[0], v)

	// Data stack
	case OP_PUSHS:
		v, err := vm.value(ins.Args[0])
		if err != nil {
			return err
		}
		vm.Memory.PushOperand(v)
	case OP_POPS:
		return vm.executePops(ins)

	// Arithmetic
	case OP_ADD, OP_SUB, OP_MUL, OP_IDIV:
		return vm.executeArithmetic(ins)

	// Relational
	case OP_LT, OP_GT, OP_EQ:
		return vm.executeCompare(ins)

	// Boolean
	case OP_AND, OP_OR:
		return vm.executeLogic(ins)
	case OP_NOT:
		return vm.executeNot(ins)

	// Conversions and strings
	case OP_INT2CHAR:
		return vm.executeInt2Char(ins)
	case OP_STRI2INT:
		return vm.executeStri2Int(ins)
	case OP_CONCAT:
		return vm.executeConcat(ins)
	case OP_STRLEN:
		return vm.executeStrlen(ins)
	case OP_GETCHAR:
		return vm.executeGetChar(ins)
	case OP_SETCHAR:
		return vm.executeSetChar(ins)
	case OP_TYPE:
		return vm.executeType(ins)

	// Input/output
	case OP_READ:
		return vm.executeRead(ins)
	case OP_WRITE:
		return vm.executeWrite(ins)
	case OP_DPRINT:
		return vm.executeDprint(ins)
	case OP_BREAK:
		return vm.executeBreak(ins)

	// Control flow
	case OP_LABEL:
		// Resolved when the program was built
	case OP_JUMP:
		target, err := vm.label(ins.Args[0])
		if err != nil {
			return err
		}
		vm.PC = target
	case OP_JUMPIFEQ, OP_JUMPIFNEQ:
		return vm.executeConditionalJump(ins)
	case OP_CALL:
		target, err := vm.label(ins.Args[0])
		if err != nil {
			return err
		}
		vm.Memory.PushReturn(vm.PC)
		trace.Call(vm.Current, ins.Args[0].Name, target, len(vm.Memory.calls))
		vm.PC = target
	case OP_RETURN:
		target, err := vm.Memory.PopReturn()
		if err != nil {
			return err
		}
		trace.Return(vm.Current, target, len(vm.Memory.calls))
		vm.PC = target
	case OP_EXIT:
		return vm.executeExit(ins)

	default:
		return types.NewError(types.E_INTERNAL, "unknown opcode: %s (%d)", ins.Op.String(), ins.Op)
	}

	return nil
}

// resolve returns the value of a literal or variable operand. Variables may
// yield types.Undefined.
func (vm *VM) resolve(arg Operand) (types.Value, error) {
	switch arg.Kind {
	case KindLiteral:
		return arg.Value, nil
	case KindVar:
		return vm.Memory.Read(arg.Frame, arg.Name)
	default:
		return nil, types.NewError(types.E_INTERNAL, "operand %s is not a symbol", arg)
	}
}

// value resolves an operand and requires it to hold a value
func (vm *VM) value(arg Operand) (types.Value, error) {
	v, err := vm.resolve(arg)
	if err != nil {
		return nil, err
	}
	if types.IsUndefined(v) {
		return nil, types.NewError(types.E_VALUE, "variable %s has no value", arg)
	}
	return v, nil
}

// store writes v to a variable operand
func (vm *VM) store(dest Operand, v types.Value) error {
	return vm.Memory.Write(dest.Frame, dest.Name, v)
}

// label resolves a label operand to a code index
func (vm *VM) label(arg Operand) (int, error) {
	target, ok := vm.Program.Label(arg.Name)
	if !ok {
		return 0, types.NewError(types.E_SEMANTIC, "label %q is not defined", arg.Name)
	}
	return target, nil
}

// Traceback returns the failing instruction and the CALL instructions that
// led to it, oldest first
func (vm *VM) Traceback() []task.ActivationFrame {
	calls := vm.Memory.CallStack()
	stack := make([]task.ActivationFrame, 0, len(calls)+1)
	for _, ret := range calls {
		if pc := ret - 1; pc >= 0 && pc < len(vm.Program.Code) {
			stack = append(stack, vm.activation(pc))
		}
	}
	if vm.Current < len(vm.Program.Code) {
		stack = append(stack, vm.activation(vm.Current))
	}
	return stack
}

func (vm *VM) activation(pc int) task.ActivationFrame {
	ins := &vm.Program.Code[pc]
	return task.ActivationFrame{
		Label:  vm.Program.EnclosingLabel(pc),
		PC:     pc,
		Order:  ins.Order,
		OpCode: ins.Op.String(),
	}
}

// Report summarises the run so far
func (vm *VM) Report(exitCode int) *task.Report {
	r := &task.Report{
		State:    vm.state,
		ExitCode: exitCode,
		Executed: vm.Executed,
		MaxVars:  vm.MaxVars,
		Source:   vm.Program.Stats(),
		Err:      vm.err,
	}
	if vm.state == task.StateFailed {
		r.CallStack = vm.Traceback()
	}
	return r
}
