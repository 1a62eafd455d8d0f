package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const echoProgram = `<?xml version="1.0" encoding="UTF-8"?>
<program language="IPPcode24">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@line</arg1></instruction>
  <instruction order="2" opcode="READ"><arg1 type="var">GF@line</arg1><arg2 type="type">string</arg2></instruction>
  <instruction order="3" opcode="WRITE"><arg1 type="var">GF@line</arg1></instruction>
</program>
`

func TestRunSourceFileInputStdin(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "echo.xml", echoProgram)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--source", src}, strings.NewReader("hello\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunSourceStdinInputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "input.txt", "from file\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--input", input}, strings.NewReader(echoProgram), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if stdout.String() != "from file" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunParameterErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no source or input", nil},
		{"unknown flag", []string{"--bogus"}},
		{"bad format", []string{"--source", "x", "--format", "json"}},
		{"bad log level", []string{"--source", "x", "--log-level", "loud"}},
		{"bad stats item", []string{"--source", "x", "--stats-items", "hot"}},
		{"positional", []string{"--source", "x", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, strings.NewReader(""), &stdout, &stderr); code != 10 {
				t.Errorf("exit code %d, expected 10", code)
			}
		})
	}
}

func TestRunMissingFiles(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "p.txt", ".IPPcode24\n")
	var stdout, stderr bytes.Buffer

	if code := run([]string{"--source", filepath.Join(dir, "nope.xml")}, strings.NewReader(""), &stdout, &stderr); code != 11 {
		t.Errorf("missing source: exit code %d, expected 11", code)
	}
	if code := run([]string{"--source", src, "--input", filepath.Join(dir, "nope.txt")}, strings.NewReader(""), &stdout, &stderr); code != 11 {
		t.Errorf("missing input: exit code %d, expected 11", code)
	}
	if code := run([]string{"--source", src, "--stats", filepath.Join(dir, "no", "such", "dir")}, strings.NewReader(""), &stdout, &stderr); code != 12 {
		t.Errorf("unwritable stats: exit code %d, expected 12", code)
	}
}

func TestRunMalformedSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "bad.xml", "<program language=\"IPPcode24\">")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--source", src}, strings.NewReader(""), &stdout, &stderr); code != 31 {
		t.Errorf("exit code %d, expected 31", code)
	}
}

func TestRunFailureTraceback(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "fail.ipp", ".IPPcode24\nWRITE string@partial\nCALL f\nLABEL f\nDEFVAR GF@x\nWRITE GF@x\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--source", src}, strings.NewReader(""), &stdout, &stderr)
	if code != 56 {
		t.Fatalf("exit code %d, expected 56", code)
	}
	if stdout.String() != "partial" {
		t.Errorf("output before the failure should be flushed, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "<- f, order 5 (WRITE):") {
		t.Errorf("missing traceback in stderr:\n%s", stderr.String())
	}
	if !strings.Contains(stderr.String(), "called from <main>, order 2 (CALL)") {
		t.Errorf("traceback does not show the CALL:\n%s", stderr.String())
	}
}

func TestRunExitAndStats(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "exit.ipp", ".IPPcode24\nDEFVAR GF@a\nMOVE GF@a int@1\nEXIT int@7\n")
	stats := filepath.Join(dir, "stats.txt")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--source", src, "--stats", stats, "--stats-items", "vars,insts"}, strings.NewReader(""), &stdout, &stderr)
	if code != 7 {
		t.Fatalf("exit code %d, expected 7", code)
	}

	data, err := os.ReadFile(stats)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1\n3\n" {
		t.Errorf("stats = %q", string(data))
	}
}

func TestRunDump(t *testing.T) {
	var stdout, stderr bytes.Buffer
	prog := ".IPPcode24\nLABEL top\nJUMP top\n"
	code := run([]string{"--dump", "--format", "text"}, strings.NewReader(prog), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "   0: top:") || !strings.Contains(out, "JUMP top") {
		t.Errorf("unexpected dump:\n%s", out)
	}
}

func TestRunTrace(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "t.ipp", ".IPPcode24\nWRITE int@1\nWRITE int@2\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--source", src, "--trace", "--trace-filter", "WRITE"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if n := strings.Count(stderr.String(), `"op":"WRITE"`); n != 2 {
		t.Errorf("expected 2 trace events, got %d:\n%s", n, stderr.String())
	}
}

func TestRunSourceStats(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "loop.ipp", `.IPPcode24 # header
JUMP skip
LABEL back # target
EXIT int@0
LABEL skip
JUMP back
JUMP nowhere
`)
	stats := filepath.Join(dir, "stats.txt")

	var stdout, stderr bytes.Buffer
	items := "loc,comments,labels,jumps,fwjumps,backjumps,badjumps"
	code := run([]string{"--source", src, "--stats", stats, "--stats-items", items}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(stats)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "6\n2\n2\n3\n1\n1\n1\n" {
		t.Errorf("stats = %q", string(data))
	}
}

func TestRunEmitXML(t *testing.T) {
	var stdout, stderr bytes.Buffer
	prog := ".IPPcode24\nWRITE string@a\\032b\n"
	code := run([]string{"--emit-xml", "--format", "text"}, strings.NewReader(prog), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.Contains(out, `<arg1 type="string">a\032b</arg1>`) {
		t.Errorf("unexpected XML:\n%s", out)
	}

	stdout.Reset()
	code = run([]string{"--source", writeFile(t, t.TempDir(), "p.xml", out)}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 || stdout.String() != "a b" {
		t.Errorf("running emitted XML: exit %d, stdout %q", code, stdout.String())
	}
}
