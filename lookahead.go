package main

import (
	"errors"
	"io"
)

// Lookahead holds the one rune of input not yet consumed.
type Lookahead struct {
	reader io.RuneReader
	look   rune
	eof    bool
	offset int
	err    error
}

// NewLookahead primes the lookahead cell with the first rune of r.
func NewLookahead(r io.RuneReader) *Lookahead {
	l := &Lookahead{reader: r, offset: -1}
	l.Advance()
	return l
}

// Advance discards the current rune and fetches the next one.
// ok is false once the input is exhausted.
func (l *Lookahead) Advance() (r rune, ok bool) {
	if l.eof {
		return 0, false
	}
	l.offset++
	c, _, err := l.reader.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.err = err
		}
		l.look = 0
		l.eof = true
		return 0, false
	}
	l.look = c
	return c, true
}

// Peek returns the current lookahead without consuming it.
func (l *Lookahead) Peek() (r rune, ok bool) {
	return l.look, !l.eof
}

// Is reports whether the lookahead is exactly r.
func (l *Lookahead) Is(r rune) bool {
	return !l.eof && l.look == r
}

// Offset is the zero-based rune offset of the lookahead.
func (l *Lookahead) Offset() int {
	return l.offset
}

// Err returns the read error that ended the input, if it was not io.EOF.
func (l *Lookahead) Err() error {
	return l.err
}
