package vm

import (
	"sort"

	"ippvm/types"
)

// varFrame holds the variables of one frame. A nil *varFrame means the frame
// does not exist, which is distinct from a frame missing a variable.
type varFrame struct {
	vars map[string]types.Value
}

func newVarFrame() *varFrame {
	return &varFrame{vars: make(map[string]types.Value)}
}

// Memory is the mutable machine state: frames, the data stack and the call
// stack
type Memory struct {
	global   *varFrame
	temp     *varFrame   // nil until CREATEFRAME
	frames   []*varFrame // local frame stack, top is LF
	operands []types.Value
	calls    []int
}

// NewMemory creates memory with an empty global frame
func NewMemory() *Memory {
	return &Memory{
		global:   newVarFrame(),
		frames:   make([]*varFrame, 0, 16),
		operands: make([]types.Value, 0, 64),
		calls:    make([]int, 0, 16),
	}
}

// localFrame returns the top of the frame stack, or nil when it is empty
func (m *Memory) localFrame() *varFrame {
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}

func (m *Memory) frame(f Frame) (*varFrame, error) {
	var fr *varFrame
	switch f {
	case FrameGlobal:
		fr = m.global
	case FrameLocal:
		fr = m.localFrame()
	case FrameTemp:
		fr = m.temp
	}
	if fr == nil {
		return nil, types.NewError(types.E_FRAMEACCESS, "frame %s does not exist", f)
	}
	return fr, nil
}

// Declare binds name in frame to the undefined marker
func (m *Memory) Declare(f Frame, name string) error {
	fr, err := m.frame(f)
	if err != nil {
		return err
	}
	if _, exists := fr.vars[name]; exists {
		return types.NewError(types.E_SEMANTIC, "variable %s@%s redefined", f, name)
	}
	fr.vars[name] = types.Undefined
	return nil
}

// Read returns the value of a declared variable. A declared but unassigned
// variable yields types.Undefined.
func (m *Memory) Read(f Frame, name string) (types.Value, error) {
	fr, err := m.frame(f)
	if err != nil {
		return nil, err
	}
	v, ok := fr.vars[name]
	if !ok {
		return nil, types.NewError(types.E_VARACCESS, "variable %s@%s is not defined", f, name)
	}
	return v, nil
}

// Write overwrites the value of a declared variable
func (m *Memory) Write(f Frame, name string, v types.Value) error {
	fr, err := m.frame(f)
	if err != nil {
		return err
	}
	if _, ok := fr.vars[name]; !ok {
		return types.NewError(types.E_VARACCESS, "variable %s@%s is not defined", f, name)
	}
	fr.vars[name] = v
	return nil
}

// CreateFrame replaces the temporary frame with an empty one
func (m *Memory) CreateFrame() {
	m.temp = newVarFrame()
}

// PushFrame moves the temporary frame onto the local frame stack
func (m *Memory) PushFrame() error {
	if m.temp == nil {
		return types.NewError(types.E_FRAMEACCESS, "PUSHFRAME without temporary frame")
	}
	m.frames = append(m.frames, m.temp)
	m.temp = nil
	return nil
}

// PopFrame moves the top local frame into the temporary frame
func (m *Memory) PopFrame() error {
	top := m.localFrame()
	if top == nil {
		return types.NewError(types.E_FRAMEACCESS, "POPFRAME with empty frame stack")
	}
	m.frames[len(m.frames)-1] = nil
	m.frames = m.frames[:len(m.frames)-1]
	m.temp = top
	return nil
}

// PushOperand pushes a value onto the data stack
func (m *Memory) PushOperand(v types.Value) {
	m.operands = append(m.operands, v)
}

// PopOperand pops a value from the data stack
func (m *Memory) PopOperand() (types.Value, error) {
	if len(m.operands) == 0 {
		return nil, types.NewError(types.E_VALUE, "data stack is empty")
	}
	v := m.operands[len(m.operands)-1]
	m.operands = m.operands[:len(m.operands)-1]
	return v, nil
}

// PushReturn pushes a return address onto the call stack
func (m *Memory) PushReturn(pos int) {
	m.calls = append(m.calls, pos)
}

// PopReturn pops a return address from the call stack
func (m *Memory) PopReturn() (int, error) {
	if len(m.calls) == 0 {
		return 0, types.NewError(types.E_VALUE, "call stack is empty")
	}
	pos := m.calls[len(m.calls)-1]
	m.calls = m.calls[:len(m.calls)-1]
	return pos, nil
}

// CallStack returns a copy of the return addresses, oldest first
func (m *Memory) CallStack() []int {
	out := make([]int, len(m.calls))
	copy(out, m.calls)
	return out
}

// FrameDepth returns the number of local frames
func (m *Memory) FrameDepth() int {
	return len(m.frames)
}

// InitializedCount returns how many variables currently hold a value across
// all existing frames
func (m *Memory) InitializedCount() int {
	count := countInitialized(m.global) + countInitialized(m.temp)
	for _, fr := range m.frames {
		count += countInitialized(fr)
	}
	return count
}

func countInitialized(fr *varFrame) int {
	if fr == nil {
		return 0
	}
	n := 0
	for _, v := range fr.vars {
		if !types.IsUndefined(v) {
			n++
		}
	}
	return n
}

// Snapshot is a read-only copy of memory used for BREAK dumps
type Snapshot struct {
	Global    map[string]string
	Local     []map[string]string // bottom first
	Temporary map[string]string   // nil when TF does not exist
	DataStack []string            // bottom first
	CallStack []int
}

// Snapshot copies the current memory state into printable form
func (m *Memory) Snapshot() Snapshot {
	snap := Snapshot{
		Global:    snapshotFrame(m.global),
		Temporary: snapshotFrame(m.temp),
		CallStack: m.CallStack(),
	}
	for _, fr := range m.frames {
		snap.Local = append(snap.Local, snapshotFrame(fr))
	}
	for _, v := range m.operands {
		snap.DataStack = append(snap.DataStack, describe(v))
	}
	return snap
}

func snapshotFrame(fr *varFrame) map[string]string {
	if fr == nil {
		return nil
	}
	out := make(map[string]string, len(fr.vars))
	for name, v := range fr.vars {
		out[name] = describe(v)
	}
	return out
}

// Names returns the sorted variable names of a frame, for tests and dumps
func (m *Memory) Names(f Frame) ([]string, error) {
	fr, err := m.frame(f)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(fr.vars))
	for name := range fr.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// describe renders a value as type@text
func describe(v types.Value) string {
	if types.IsUndefined(v) {
		return "<undefined>"
	}
	if v.Type() == types.TYPE_NIL {
		return "nil@nil"
	}
	return v.Type().String() + "@" + v.String()
}
