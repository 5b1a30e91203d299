package main

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *SyntaxError under errors.Is.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports the token the grammar expected and the rune it
// found instead.
type SyntaxError struct {
	Expected string
	Found    rune // only meaningful when EOF is false
	EOF      bool
	Offset   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.FoundString())
}

// FoundString describes what was found: a quoted rune or "end of input".
func (e *SyntaxError) FoundString() string {
	if e.EOF {
		return "end of input"
	}
	return quoteRune(e.Found)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func quoteRune(r rune) string {
	switch r {
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\r':
		return `'\r'`
	}
	return "'" + string(r) + "'"
}
