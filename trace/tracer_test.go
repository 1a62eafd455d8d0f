package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		filters []string
		op      string
		want    bool
	}{
		{nil, "MOVE", true},
		{[]string{"JUMP*"}, "JUMPIFEQ", true},
		{[]string{"JUMP*"}, "MOVE", false},
		{[]string{"call", "return"}, "CALL", true},
		{[]string{" ", ""}, "ADD", true},
		{[]string{"?OT"}, "NOT", true},
	}

	for _, tt := range tests {
		tr := New(true, tt.filters, &bytes.Buffer{})
		if got := tr.matchesFilter(tt.op); got != tt.want {
			t.Errorf("filters %v, op %s: got %v, expected %v", tt.filters, tt.op, got, tt.want)
		}
	}
}

func TestTracerWritesEvents(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, []string{"WRITE", "CALL"}, &buf)

	tr.Step(3, 4, "WRITE", []string{"GF@x"})
	tr.Step(4, 5, "MOVE", []string{"GF@x", "int@1"})
	tr.Call(5, "f", 9, 1)
	tr.Return(10, 6, 0)
	tr.Exception(6, 7, "ADD", errors.New("bad"))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 events, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], `"op":"WRITE"`) || !strings.Contains(lines[0], `"args":["GF@x"]`) {
		t.Errorf("unexpected step event %s", lines[0])
	}
	if !strings.Contains(lines[1], `"message":"call"`) || !strings.Contains(lines[1], `"label":"f"`) {
		t.Errorf("unexpected call event %s", lines[1])
	}
	if !strings.Contains(lines[2], `"level":"warn"`) || !strings.Contains(lines[2], `"error":"bad"`) {
		t.Errorf("unexpected exception event %s", lines[2])
	}
}

func TestDisabledTracer(t *testing.T) {
	var buf bytes.Buffer
	Init(false, nil, &buf)
	defer Init(false, nil, nil)

	if IsEnabled() {
		t.Error("tracer should be disabled")
	}
	Step(0, 1, "MOVE", nil)
	Exit(0, 1)
	if buf.Len() != 0 {
		t.Errorf("disabled tracer wrote %q", buf.String())
	}
}

func TestGlobalTracer(t *testing.T) {
	var buf bytes.Buffer
	Init(true, nil, &buf)
	defer Init(false, nil, nil)

	if !IsEnabled() {
		t.Fatal("tracer should be enabled")
	}
	Exit(3, 17)
	if !strings.Contains(buf.String(), `"code":3`) || !strings.Contains(buf.String(), `"executed":17`) {
		t.Errorf("unexpected exit event %q", buf.String())
	}
}
