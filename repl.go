package main

import (
	"fmt"
	"io"
	"strings"
)

// lineReader is satisfied by *readline.Instance.
type lineReader interface {
	Readline() (string, error)
}

// runREPL translates one statement per line until :quit or until the
// reader fails. readline reports Ctrl-C and Ctrl-D as errors, so any read
// error ends the session.
func runREPL(in lineReader, out io.Writer, opts Options) error {
	for {
		line, err := in.Readline()
		if err != nil {
			return nil
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		}

		prog, err := TranslateString(line, opts)
		if err != nil {
			fmt.Fprintf(out, "Error: %v.\n", err)
			continue
		}
		if _, err := prog.WriteTo(out); err != nil {
			return &ioError{err}
		}
	}
}
