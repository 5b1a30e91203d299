package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// Translator turns one assignment statement into an assembly listing.
// Each grammar production is a method; the lookahead rune is the only
// state consulted to choose between alternatives.
//
//	assignment := name '=' expression
//	expression := [addop] term {addop term}
//	term       := factor {mulop factor}
//	factor     := '(' expression ')' | number | ident
//	ident      := name ['(' ')']
//
// A Translator is used once and is not safe for concurrent use.
type Translator struct {
	look *Lookahead
	emit *Emitter
	opts Options
	log  *slog.Logger
}

func NewTranslator(r io.RuneReader, opts Options) *Translator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t := &Translator{
		look: NewLookahead(r),
		emit: NewEmitter(opts.Indent),
		opts: opts,
		log:  logger,
	}
	t.skipWhite()
	return t
}

// Translate reads one newline-terminated statement from r.
func Translate(r io.RuneReader, opts Options) (*Program, error) {
	return NewTranslator(r, opts).Process()
}

// TranslateString translates src, appending the terminating newline if
// it is missing.
func TranslateString(src string, opts Options) (*Program, error) {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	return Translate(strings.NewReader(src), opts)
}

// Process translates the statement and finishes the listing. On error the
// partial listing is discarded.
func (t *Translator) Process() (*Program, error) {
	t.emit.Prelude()
	err := t.assignment()
	if err == nil && !t.look.Is('\n') {
		err = t.expected("Newline")
	}
	if readErr := t.look.Err(); readErr != nil {
		return nil, fmt.Errorf("read input: %w", readErr)
	}
	if err != nil {
		return nil, err
	}
	prog := t.emit.Finish()
	t.log.Debug("translated statement",
		"lines", len(prog.Lines),
		"variables", len(prog.Variables),
		"functions", len(prog.Functions))
	return prog, nil
}

func (t *Translator) expected(what string) *SyntaxError {
	r, ok := t.look.Peek()
	return &SyntaxError{Expected: what, Found: r, EOF: !ok, Offset: t.look.Offset()}
}

func (t *Translator) advance() {
	t.look.Advance()
	t.skipWhite()
}

func (t *Translator) skipWhite() {
	if !t.opts.SkipWhite {
		return
	}
	for t.look.Is(' ') || t.look.Is('\t') {
		t.look.Advance()
	}
}

func (t *Translator) match(c rune) error {
	if !t.look.Is(c) {
		return t.expected(quoteRune(c))
	}
	t.advance()
	return nil
}

func (t *Translator) lookIs(class func(rune) bool) bool {
	r, ok := t.look.Peek()
	return ok && class(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r)
}

func isAddop(r rune) bool {
	return r == '+' || r == '-'
}

func isMulop(r rune) bool {
	return r == '*' || r == '/'
}

// reservedNames are registers, size keywords and directives that NASM
// reads in place of a symbol. NASM matches them case-insensitively.
var reservedNames = map[string]bool{
	"eax": true, "ebx": true, "ecx": true, "edx": true,
	"esi": true, "edi": true, "esp": true, "ebp": true, "eip": true,
	"ax": true, "bx": true, "cx": true, "dx": true,
	"si": true, "di": true, "sp": true, "bp": true,
	"al": true, "ah": true, "bl": true, "bh": true,
	"cl": true, "ch": true, "dl": true, "dh": true,
	"cs": true, "ds": true, "es": true, "fs": true, "gs": true, "ss": true,
	"byte": true, "word": true, "dword": true, "qword": true,
	"section": true, "segment": true, "global": true, "extern": true,
	"db": true, "dw": true, "dd": true, "dq": true, "equ": true, "times": true,
}

// name reads an identifier: one letter, or with LongNames a letter
// followed by letters and digits. Reserved names are rejected where they
// start.
func (t *Translator) name() (string, error) {
	if !t.lookIs(unicode.IsLetter) {
		return "", t.expected("Name")
	}
	start := t.expected("Name")
	name := t.scan(isAlnum)
	if reservedNames[strings.ToLower(name)] {
		return "", start
	}
	return name, nil
}

// number reads a literal: one digit, or with LongNames a run of digits.
func (t *Translator) number() (string, error) {
	if !t.lookIs(isDigit) {
		return "", t.expected("Digit")
	}
	return t.scan(isDigit), nil
}

// scan consumes the lookahead, and with LongNames every following rune in
// class, then skips white space.
func (t *Translator) scan(class func(rune) bool) string {
	var sb strings.Builder
	r, _ := t.look.Peek()
	sb.WriteRune(r)
	t.look.Advance()
	for t.opts.LongNames && t.lookIs(class) {
		r, _ = t.look.Peek()
		sb.WriteRune(r)
		t.look.Advance()
	}
	t.skipWhite()
	return sb.String()
}

func (t *Translator) assignment() error {
	target, err := t.name()
	if err != nil {
		return err
	}
	t.declareVariable(target)
	if err := t.match('='); err != nil {
		return err
	}
	if err := t.expression(); err != nil {
		return err
	}
	t.emit.EmitLine(fmt.Sprintf("mov [%s], %s", target, primaryReg))
	return nil
}

func (t *Translator) expression() error {
	if t.lookIs(isAddop) {
		t.emit.EmitLine(fmt.Sprintf("xor %s, %s", primaryReg, primaryReg))
	} else if err := t.term(); err != nil {
		return err
	}
	for t.lookIs(isAddop) {
		t.emit.EmitLine("push " + primaryReg)
		var err error
		if t.look.Is('+') {
			err = t.add()
		} else {
			err = t.sub()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) term() error {
	if err := t.factor(); err != nil {
		return err
	}
	for t.lookIs(isMulop) {
		t.emit.EmitLine("push " + primaryReg)
		var err error
		if t.look.Is('*') {
			err = t.mul()
		} else {
			err = t.div()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) factor() error {
	switch {
	case t.look.Is('('):
		if err := t.match('('); err != nil {
			return err
		}
		if err := t.expression(); err != nil {
			return err
		}
		return t.match(')')
	case t.lookIs(isDigit):
		n, err := t.number()
		if err != nil {
			return err
		}
		t.emit.EmitLine(fmt.Sprintf("mov %s, %s", primaryReg, n))
		return nil
	case t.lookIs(unicode.IsLetter):
		return t.ident()
	default:
		return t.expected("Factor")
	}
}

func (t *Translator) ident() error {
	name, err := t.name()
	if err != nil {
		return err
	}
	if t.look.Is('(') {
		if err := t.match('('); err != nil {
			return err
		}
		if err := t.match(')'); err != nil {
			return err
		}
		t.emit.EmitLine("call " + name)
		t.declareFunction(name)
		return nil
	}
	t.emit.EmitLine(fmt.Sprintf("mov %s, [%s]", primaryReg, name))
	t.declareVariable(name)
	return nil
}

// The binary operators each consume their operator, evaluate the right
// operand into the primary register and pop the left operand into the
// secondary register before combining.

func (t *Translator) add() error {
	if err := t.match('+'); err != nil {
		return err
	}
	if err := t.term(); err != nil {
		return err
	}
	t.popSecondary()
	t.emit.EmitLine(fmt.Sprintf("add %s, %s", primaryReg, secondaryReg))
	return nil
}

func (t *Translator) sub() error {
	if err := t.match('-'); err != nil {
		return err
	}
	if err := t.term(); err != nil {
		return err
	}
	t.popSecondary()
	// primary holds right and secondary left, so right-left is negated.
	t.emit.EmitLine(fmt.Sprintf("sub %s, %s", primaryReg, secondaryReg))
	t.emit.EmitLine("neg " + primaryReg)
	return nil
}

func (t *Translator) mul() error {
	if err := t.match('*'); err != nil {
		return err
	}
	if err := t.factor(); err != nil {
		return err
	}
	t.popSecondary()
	t.emit.EmitLine(fmt.Sprintf("imul %s, %s", primaryReg, secondaryReg))
	return nil
}

func (t *Translator) div() error {
	if err := t.match('/'); err != nil {
		return err
	}
	if err := t.factor(); err != nil {
		return err
	}
	t.popSecondary()
	// idiv divides edx:eax, so the dividend goes back into eax.
	t.emit.EmitLine(fmt.Sprintf("xchg %s, %s", primaryReg, secondaryReg))
	t.emit.EmitLine("cdq")
	t.emit.EmitLine("idiv " + secondaryReg)
	return nil
}

func (t *Translator) popSecondary() {
	t.emit.EmitLine("pop " + secondaryReg)
}

func (t *Translator) declareVariable(name string) {
	t.log.Debug("declare variable", "name", name)
	t.emit.DeclareVariable(name)
}

func (t *Translator) declareFunction(name string) {
	t.log.Debug("bind function", "name", name)
	t.emit.DeclareFunction(name, placeholderBody)
}
