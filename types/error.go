package types

import (
	"errors"
	"fmt"
)

// Error is a Go error carrying an ErrorCode
type Error struct {
	Code ErrorCode
	Msg  string
}

// NewError creates an error of the given kind with a formatted detail message
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Code.Message())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// CodeOf extracts the ErrorCode from err. Errors that do not carry a code
// are reported as E_INTERNAL.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return E_NONE
	}
	var ippErr *Error
	if errors.As(err, &ippErr) {
		return ippErr.Code
	}
	return E_INTERNAL
}
