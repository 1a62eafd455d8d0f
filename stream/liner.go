package stream

import (
	"github.com/peterh/liner"
)

// PromptReader reads values for READ from an interactive terminal, showing a
// prompt naming the requested type
type PromptReader struct {
	ln *liner.State
}

// NewPromptReader opens the terminal for line editing. Close must be called
// to restore the terminal mode.
func NewPromptReader() *PromptReader {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	return &PromptReader{ln: ln}
}

// Close restores the terminal
func (p *PromptReader) Close() error {
	return p.ln.Close()
}

func (p *PromptReader) prompt(kind string) (string, bool) {
	line, err := p.ln.Prompt(kind + "> ")
	if err != nil {
		// io.EOF on Ctrl+D, liner.ErrPromptAborted on Ctrl+C
		return "", false
	}
	p.ln.AppendHistory(line)
	return line, true
}

// ReadString prompts for a string
func (p *PromptReader) ReadString() (string, bool) {
	return p.prompt("string")
}

// ReadInt prompts for an integer
func (p *PromptReader) ReadInt() (int64, bool) {
	line, ok := p.prompt("int")
	if !ok {
		return 0, false
	}
	return ParseInt(line)
}

// ReadBool prompts for a boolean
func (p *PromptReader) ReadBool() (bool, bool) {
	line, ok := p.prompt("bool")
	if !ok {
		return false, false
	}
	return ParseBool(line)
}
