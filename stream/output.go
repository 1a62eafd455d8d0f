package stream

import (
	"bufio"
	"io"
	"strconv"
)

// Writer formats values for WRITE, DPRINT and BREAK
type Writer struct {
	writer *bufio.Writer
}

// NewWriter creates a buffered Writer over w. Call Flush before exiting.
func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: bufio.NewWriter(w)}
}

// WriteInt writes an integer in decimal
func (w *Writer) WriteInt(n int64) error {
	_, err := w.writer.WriteString(strconv.FormatInt(n, 10))
	return err
}

// WriteString writes s verbatim
func (w *Writer) WriteString(s string) error {
	_, err := w.writer.WriteString(s)
	return err
}

// WriteBool writes "true" or "false"
func (w *Writer) WriteBool(b bool) error {
	_, err := w.writer.WriteString(strconv.FormatBool(b))
	return err
}

// Flush writes any buffered output
func (w *Writer) Flush() error {
	return w.writer.Flush()
}

// Unbuffered wraps w so every value is written immediately. Used for the
// error stream so debug output interleaves with traces.
type Unbuffered struct {
	w io.Writer
}

// NewUnbuffered creates an unbuffered writer
func NewUnbuffered(w io.Writer) *Unbuffered {
	return &Unbuffered{w: w}
}

func (u *Unbuffered) WriteInt(n int64) error {
	_, err := io.WriteString(u.w, strconv.FormatInt(n, 10))
	return err
}

func (u *Unbuffered) WriteString(s string) error {
	_, err := io.WriteString(u.w, s)
	return err
}

func (u *Unbuffered) WriteBool(b bool) error {
	_, err := io.WriteString(u.w, strconv.FormatBool(b))
	return err
}
