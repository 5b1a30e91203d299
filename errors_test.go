package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestSyntaxErrorMessage(t *testing.T) {
	tests := []struct {
		err  SyntaxError
		want string
	}{
		{SyntaxError{Expected: "Name", Found: '3'}, "expected Name, found '3'"},
		{SyntaxError{Expected: "')'", EOF: true}, "expected ')', found end of input"},
		{SyntaxError{Expected: "Newline", Found: '\r'}, `expected Newline, found '\r'`},
		{SyntaxError{Expected: "Factor", Found: '\t'}, `expected Factor, found '\t'`},
	}
	for _, test := range tests {
		be.Equal(t, test.err.Error(), test.want)
	}
}

func TestSyntaxErrorIsErrSyntax(t *testing.T) {
	var err error = &SyntaxError{Expected: "Name", EOF: true}
	be.True(t, errors.Is(err, ErrSyntax))

	wrapped := fmt.Errorf("line 1: %w", err)
	be.True(t, errors.Is(wrapped, ErrSyntax))

	var syntaxErr *SyntaxError
	be.True(t, errors.As(wrapped, &syntaxErr))
	be.Equal(t, syntaxErr.Expected, "Name")
}
