package task

import (
	"fmt"
	"strings"

	"ippvm/types"
)

// FormatTraceback formats a call stack and error into a traceback. The stack
// is ordered oldest first; the last frame is where the error occurred.
//
//	<- LABEL, order N (OPCODE):  <error message>
//	<- ... called from LABEL, order N (CALL)
//	<- (End of traceback)
func FormatTraceback(stack []ActivationFrame, err error) []string {
	msg := types.CodeOf(err).Message()
	if err != nil {
		msg = err.Error()
	}

	if len(stack) == 0 {
		return []string{
			fmt.Sprintf("<- (no stack):  %s", msg),
			"<- (End of traceback)",
		}
	}

	var lines []string

	for i := len(stack) - 1; i >= 0; i-- {
		frame := &stack[i]

		var line string
		if i == len(stack)-1 {
			line = fmt.Sprintf("<- %s, order %d (%s):  %s",
				location(frame), frame.Order, frame.OpCode, msg)
		} else {
			line = fmt.Sprintf("<- ... called from %s, order %d (%s)",
				location(frame), frame.Order, frame.OpCode)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "<- (End of traceback)")

	return lines
}

// FormatTracebackString returns the traceback as a single string with newlines
func FormatTracebackString(stack []ActivationFrame, err error) string {
	return strings.Join(FormatTraceback(stack, err), "\n")
}

func location(frame *ActivationFrame) string {
	if frame.Label == "" {
		return "<main>"
	}
	return frame.Label
}
