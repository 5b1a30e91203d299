package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// scriptedReader replays lines and then reports io.EOF, as readline does
// for Ctrl-D.
type scriptedReader struct {
	lines []string
}

func (s *scriptedReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestREPLTranslatesEachLine(t *testing.T) {
	var out bytes.Buffer
	in := &scriptedReader{lines: []string{"x=1", "", "  y=f()  "}}

	err := runREPL(in, &out, DefaultOptions())
	be.Err(t, err, nil)
	be.Equal(t, strings.Count(out.String(), "section .text\n"), 2)
	be.True(t, strings.Contains(out.String(), "\tmov [x], eax\n"))
	be.True(t, strings.Contains(out.String(), "f:\n\tret\n"))
	be.Equal(t, len(in.lines), 0)
}

func TestREPLReportsErrorsAndContinues(t *testing.T) {
	var out bytes.Buffer
	in := &scriptedReader{lines: []string{"x=", "y=2"}}

	err := runREPL(in, &out, DefaultOptions())
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(out.String(), `Error: expected Factor, found '\n'.`+"\n"))
	be.True(t, strings.Contains(out.String(), "\tmov eax, 2\n"))
}

func TestREPLQuit(t *testing.T) {
	var out bytes.Buffer
	in := &scriptedReader{lines: []string{":quit", "x=1"}}

	err := runREPL(in, &out, DefaultOptions())
	be.Err(t, err, nil)
	be.Equal(t, out.String(), "")
	be.Equal(t, in.lines, []string{"x=1"})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestREPLWriteError(t *testing.T) {
	in := &scriptedReader{lines: []string{"x=1"}}
	err := runREPL(in, failingWriter{}, DefaultOptions())
	be.Err(t, err, "disk full")
	be.Equal(t, exitCode(err), exitIO)
}

func TestCLIRepl(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := &cli{
		stdin:  strings.NewReader(""),
		stdout: &stdout,
		stderr: &stderr,
		newLineReader: func() lineReader {
			return &scriptedReader{lines: []string{"abc=10"}}
		},
	}
	root := newRootCmd(c)
	root.SetArgs([]string{"repl", "--long-names"})
	be.Err(t, root.Execute(), nil)
	be.True(t, strings.Contains(stdout.String(), "\tmov eax, 10\n"))
	be.True(t, strings.Contains(stdout.String(), "abc dd 0\n"))
}
