package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		code  ErrorCode
		value int
		name  string
	}{
		{E_NONE, 0, "E_NONE"},
		{E_PARAM, 10, "E_PARAM"},
		{E_INFILE, 11, "E_INFILE"},
		{E_OUTFILE, 12, "E_OUTFILE"},
		{E_XMLFORMAT, 31, "E_XMLFORMAT"},
		{E_STRUCT, 32, "E_STRUCT"},
		{E_SEMANTIC, 52, "E_SEMANTIC"},
		{E_OPTYPE, 53, "E_OPTYPE"},
		{E_VARACCESS, 54, "E_VARACCESS"},
		{E_FRAMEACCESS, 55, "E_FRAMEACCESS"},
		{E_VALUE, 56, "E_VALUE"},
		{E_OPVALUE, 57, "E_OPVALUE"},
		{E_STRING, 58, "E_STRING"},
		{E_INTERNAL, 88, "E_INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code.ExitCode() != tt.value {
				t.Errorf("%s: expected exit code %d, got %d", tt.name, tt.value, tt.code.ExitCode())
			}

			if tt.code.String() != tt.name {
				t.Errorf("%s: String() returned %q, expected %q", tt.name, tt.code.String(), tt.name)
			}

			parsed, ok := ErrorFromString(tt.name)
			if !ok || parsed != tt.code {
				t.Errorf("ErrorFromString(%q) = %v, %v", tt.name, parsed, ok)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if CodeOf(nil) != E_NONE {
		t.Errorf("CodeOf(nil) should be E_NONE")
	}

	err := NewError(E_OPTYPE, "ADD expects int")
	wrapped := fmt.Errorf("instruction 3: %w", err)
	if CodeOf(wrapped) != E_OPTYPE {
		t.Errorf("CodeOf(wrapped) = %s, expected E_OPTYPE", CodeOf(wrapped))
	}

	if CodeOf(errors.New("disk on fire")) != E_INTERNAL {
		t.Errorf("plain errors should map to E_INTERNAL")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NewError(E_VALUE, "")
	if err.Error() != "E_VALUE: Missing value" {
		t.Errorf("unexpected message %q", err.Error())
	}

	err = NewError(E_STRING, "index %d out of range", 7)
	if err.Error() != "E_STRING: index 7 out of range" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
