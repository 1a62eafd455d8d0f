package stream

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// LineReader reads values for READ one line at a time
type LineReader struct {
	reader    *bufio.Reader
	lastWasCR bool
	eof       bool
}

// NewLineReader creates a LineReader over r
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator. CR, LF and CRLF
// all end a line. A final unterminated line is returned before io.EOF.
func (l *LineReader) ReadLine() (string, error) {
	if l.eof {
		return "", io.EOF
	}

	var line strings.Builder

	for {
		r, _, err := l.reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				l.eof = true
				if line.Len() > 0 {
					return line.String(), nil
				}
			}
			return "", err
		}

		switch r {
		case '\r':
			l.lastWasCR = true
			return line.String(), nil
		case '\n':
			if l.lastWasCR {
				// LF after CR - the CR already ended the line
				l.lastWasCR = false
				continue
			}
			return line.String(), nil
		default:
			l.lastWasCR = false
			line.WriteRune(r)
		}
	}
}

// ReadString reads one line as a string
func (l *LineReader) ReadString() (string, bool) {
	line, err := l.ReadLine()
	if err != nil {
		return "", false
	}
	return line, true
}

// ReadInt reads one line as a base-10 integer
func (l *LineReader) ReadInt() (int64, bool) {
	line, err := l.ReadLine()
	if err != nil {
		return 0, false
	}
	return ParseInt(line)
}

// ReadBool reads one line as "true" or "false" (case-insensitive)
func (l *LineReader) ReadBool() (bool, bool) {
	line, err := l.ReadLine()
	if err != nil {
		return false, false
	}
	return ParseBool(line)
}

// ParseInt parses an input line as an integer, ignoring surrounding blanks
func ParseInt(line string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseBool parses an input line as a boolean
func ParseBool(line string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
