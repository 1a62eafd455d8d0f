package task

import (
	"fmt"
	"io"
)

// State represents the outcome of a program run
type State int

const (
	StateCreated State = iota
	StateRunning
	StateCompleted // ran off the end or executed EXIT
	StateFailed    // stopped by an error
	StateKilled    // interrupted from outside
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// ActivationFrame is one entry of a traceback: an instruction together with
// the label it belongs to
type ActivationFrame struct {
	Label  string // nearest preceding label, "" for top-level code
	PC     int    // index into the program
	Order  int64  // declared order key
	OpCode string
}

// SourceStats are counts taken from the program text before it runs
type SourceStats struct {
	LOC       int // instructions
	Comments  int
	Labels    int
	Jumps     int // jumps, conditional jumps, calls and returns
	FwJumps   int // jumps to a label defined later
	BackJumps int // jumps to a label defined earlier
	BadJumps  int // jumps to an undefined label
}

// Report summarises a finished run
type Report struct {
	State     State
	ExitCode  int
	Executed  int64 // instructions executed, including the failing one
	MaxVars   int   // peak number of initialised variables
	Source    SourceStats
	CallStack []ActivationFrame
	Err       error
}

// Stat items accepted by WriteStats
const (
	StatInsts     = "insts"
	StatVars      = "vars"
	StatLOC       = "loc"
	StatComments  = "comments"
	StatLabels    = "labels"
	StatJumps     = "jumps"
	StatFwJumps   = "fwjumps"
	StatBackJumps = "backjumps"
	StatBadJumps  = "badjumps"
)

// IsStat reports whether name is a statistic WriteStats understands
func IsStat(name string) bool {
	switch name {
	case StatInsts, StatVars, StatLOC, StatComments, StatLabels,
		StatJumps, StatFwJumps, StatBackJumps, StatBadJumps:
		return true
	}
	return false
}

// WriteStats writes the requested statistics, one per line, in the order
// given
func (r *Report) WriteStats(w io.Writer, items []string) error {
	for _, item := range items {
		var n int64
		switch item {
		case StatInsts:
			n = r.Executed
		case StatVars:
			n = int64(r.MaxVars)
		case StatLOC:
			n = int64(r.Source.LOC)
		case StatComments:
			n = int64(r.Source.Comments)
		case StatLabels:
			n = int64(r.Source.Labels)
		case StatJumps:
			n = int64(r.Source.Jumps)
		case StatFwJumps:
			n = int64(r.Source.FwJumps)
		case StatBackJumps:
			n = int64(r.Source.BackJumps)
		case StatBadJumps:
			n = int64(r.Source.BadJumps)
		default:
			return fmt.Errorf("unknown statistic %q", item)
		}
		if _, err := fmt.Fprintf(w, "%d\n", n); err != nil {
			return err
		}
	}
	return nil
}
