package vm

import (
	"testing"

	"ippvm/types"
)

func expectCode(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got success", code)
	}
	if got := types.CodeOf(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}

func TestDeclareThenReadIsUndefined(t *testing.T) {
	m := NewMemory()
	if err := m.Declare(FrameGlobal, "x"); err != nil {
		t.Fatalf("Declare() error: %v", err)
	}
	v, err := m.Read(FrameGlobal, "x")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !types.IsUndefined(v) {
		t.Errorf("freshly declared variable should be undefined, got %#v", v)
	}
}

func TestRedeclaration(t *testing.T) {
	m := NewMemory()
	if err := m.Declare(FrameGlobal, "x"); err != nil {
		t.Fatal(err)
	}
	expectCode(t, m.Declare(FrameGlobal, "x"), types.E_SEMANTIC)
}

func TestFrameAccessBeforeVariableAccess(t *testing.T) {
	m := NewMemory()

	_, err := m.Read(FrameLocal, "x")
	expectCode(t, err, types.E_FRAMEACCESS)
	_, err = m.Read(FrameTemp, "x")
	expectCode(t, err, types.E_FRAMEACCESS)
	expectCode(t, m.Declare(FrameTemp, "x"), types.E_FRAMEACCESS)
	expectCode(t, m.Write(FrameLocal, "x", types.NewInt(1)), types.E_FRAMEACCESS)

	_, err = m.Read(FrameGlobal, "missing")
	expectCode(t, err, types.E_VARACCESS)
	expectCode(t, m.Write(FrameGlobal, "missing", types.NewInt(1)), types.E_VARACCESS)

	m.CreateFrame()
	_, err = m.Read(FrameTemp, "missing")
	expectCode(t, err, types.E_VARACCESS)
}

func TestWriteRead(t *testing.T) {
	m := NewMemory()
	if err := m.Declare(FrameGlobal, "s"); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(FrameGlobal, "s", types.NewStr("hi")); err != nil {
		t.Fatal(err)
	}
	v, err := m.Read(FrameGlobal, "s")
	if err != nil {
		t.Fatal(err)
	}
	if !v.Equal(types.NewStr("hi")) {
		t.Errorf("Read() = %#v", v)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	m := NewMemory()
	expectCode(t, m.PushFrame(), types.E_FRAMEACCESS)
	expectCode(t, m.PopFrame(), types.E_FRAMEACCESS)

	m.CreateFrame()
	if err := m.Declare(FrameTemp, "a"); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(FrameTemp, "a", types.NewInt(7)); err != nil {
		t.Fatal(err)
	}
	if err := m.PushFrame(); err != nil {
		t.Fatalf("PushFrame() error: %v", err)
	}

	// TF is consumed by PUSHFRAME
	_, err := m.Read(FrameTemp, "a")
	expectCode(t, err, types.E_FRAMEACCESS)

	v, err := m.Read(FrameLocal, "a")
	if err != nil || !v.Equal(types.NewInt(7)) {
		t.Fatalf("LF@a = %#v, %v", v, err)
	}
	if m.FrameDepth() != 1 {
		t.Errorf("FrameDepth() = %d", m.FrameDepth())
	}

	if err := m.PopFrame(); err != nil {
		t.Fatalf("PopFrame() error: %v", err)
	}
	v, err = m.Read(FrameTemp, "a")
	if err != nil || !v.Equal(types.NewInt(7)) {
		t.Fatalf("TF@a after POPFRAME = %#v, %v", v, err)
	}
	_, err = m.Read(FrameLocal, "a")
	expectCode(t, err, types.E_FRAMEACCESS)
}

func TestNestedFramesUseTop(t *testing.T) {
	m := NewMemory()
	for _, val := range []int64{1, 2} {
		m.CreateFrame()
		if err := m.Declare(FrameTemp, "v"); err != nil {
			t.Fatal(err)
		}
		if err := m.Write(FrameTemp, "v", types.NewInt(val)); err != nil {
			t.Fatal(err)
		}
		if err := m.PushFrame(); err != nil {
			t.Fatal(err)
		}
	}

	v, _ := m.Read(FrameLocal, "v")
	if !v.Equal(types.NewInt(2)) {
		t.Errorf("LF should be the most recently pushed frame, got %#v", v)
	}
	if err := m.PopFrame(); err != nil {
		t.Fatal(err)
	}
	v, _ = m.Read(FrameLocal, "v")
	if !v.Equal(types.NewInt(1)) {
		t.Errorf("LF after POPFRAME should be the outer frame, got %#v", v)
	}
}

func TestCreateFrameDiscardsTemporary(t *testing.T) {
	m := NewMemory()
	m.CreateFrame()
	if err := m.Declare(FrameTemp, "x"); err != nil {
		t.Fatal(err)
	}
	m.CreateFrame()
	names, err := m.Names(FrameTemp)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("CREATEFRAME should start empty, got %v", names)
	}
}

func TestStacks(t *testing.T) {
	m := NewMemory()
	_, err := m.PopOperand()
	expectCode(t, err, types.E_VALUE)
	_, err = m.PopReturn()
	expectCode(t, err, types.E_VALUE)

	m.PushOperand(types.NewInt(1))
	m.PushOperand(types.NewStr("two"))
	v, err := m.PopOperand()
	if err != nil || !v.Equal(types.NewStr("two")) {
		t.Errorf("PopOperand() = %#v, %v", v, err)
	}

	m.PushReturn(4)
	m.PushReturn(9)
	if got := m.CallStack(); len(got) != 2 || got[0] != 4 || got[1] != 9 {
		t.Errorf("CallStack() = %v", got)
	}
	pos, err := m.PopReturn()
	if err != nil || pos != 9 {
		t.Errorf("PopReturn() = %d, %v", pos, err)
	}
}

func TestInitializedCount(t *testing.T) {
	m := NewMemory()
	_ = m.Declare(FrameGlobal, "a")
	_ = m.Declare(FrameGlobal, "b")
	_ = m.Write(FrameGlobal, "a", types.Nil)
	m.CreateFrame()
	_ = m.Declare(FrameTemp, "c")
	_ = m.Write(FrameTemp, "c", types.NewBool(true))

	if got := m.InitializedCount(); got != 2 {
		t.Errorf("InitializedCount() = %d, expected 2", got)
	}
}

func TestSnapshot(t *testing.T) {
	m := NewMemory()
	_ = m.Declare(FrameGlobal, "a")
	_ = m.Declare(FrameGlobal, "b")
	_ = m.Write(FrameGlobal, "b", types.NewStr("x"))
	m.PushOperand(types.Nil)

	snap := m.Snapshot()
	if snap.Global["a"] != "<undefined>" || snap.Global["b"] != "string@x" {
		t.Errorf("unexpected global snapshot %v", snap.Global)
	}
	if snap.Temporary != nil {
		t.Errorf("temporary frame should be absent, got %v", snap.Temporary)
	}
	if len(snap.DataStack) != 1 || snap.DataStack[0] != "nil@nil" {
		t.Errorf("unexpected data stack %v", snap.DataStack)
	}
}
