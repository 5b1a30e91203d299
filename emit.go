package main

import (
	"io"
	"sort"
	"strings"
)

// Registers used by the generated code. The primary register holds the
// current value; the secondary register receives a popped operand.
const (
	primaryReg   = "eax"
	secondaryReg = "ebx"
)

// placeholderBody is bound to every called function since the language
// has no function definitions.
var placeholderBody = []string{"ret"}

// Emitter appends instruction lines in execution order and collects the
// variables and functions that the final sections must define.
type Emitter struct {
	indent    string
	lines     []string
	variables map[string]string   // name -> declaration line
	functions map[string][]string // name -> body lines
	bodyStart int
}

func NewEmitter(indent string) *Emitter {
	return &Emitter{
		indent:    indent,
		variables: make(map[string]string),
		functions: make(map[string][]string),
	}
}

// EmitLine appends one indented instruction.
func (e *Emitter) EmitLine(text string) {
	e.lines = append(e.lines, e.indent+text)
}

// Directive appends an unindented line such as a section header.
func (e *Emitter) Directive(text string) {
	e.lines = append(e.lines, text)
}

// Label appends "name:".
func (e *Emitter) Label(name string) {
	e.lines = append(e.lines, name+":")
}

// DeclareVariable records a zero-initialized cell for name. Declaring the
// same name again has no effect.
func (e *Emitter) DeclareVariable(name string) {
	if _, ok := e.variables[name]; ok {
		return
	}
	e.variables[name] = name + " dd 0"
}

// DeclareFunction binds name to body, replacing any earlier binding.
func (e *Emitter) DeclareFunction(name string, body []string) {
	e.functions[name] = append([]string(nil), body...)
}

func (e *Emitter) Prelude() {
	e.Directive("section .text")
	e.Directive("global _start")
	e.Label("_start")
	e.bodyStart = len(e.lines)
}

// Finish appends the exit sequence, the function blocks and the data
// section, and returns the completed program. The emitter must not be
// used afterwards.
func (e *Emitter) Finish() *Program {
	bodyEnd := len(e.lines)
	e.EmitLine("mov eax, 1")
	e.EmitLine("int 0x80")

	functions := sortedKeys(e.functions)
	for _, name := range functions {
		e.Label(name)
		for _, line := range e.functions[name] {
			e.EmitLine(line)
		}
		e.lines = append(e.lines, "")
	}

	variables := sortedKeys(e.variables)
	if len(variables) > 0 {
		e.Directive("section .data")
		for _, name := range variables {
			e.lines = append(e.lines, e.variables[name])
		}
	}

	return &Program{
		Lines:     e.lines,
		Variables: variables,
		Functions: functions,
		bodyStart: e.bodyStart,
		bodyEnd:   bodyEnd,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Program is a finished translation.
type Program struct {
	Lines     []string
	Variables []string // declared variable names, sorted
	Functions []string // called function names, sorted

	bodyStart, bodyEnd int
}

// Body returns the instructions generated for the statement itself,
// without the prelude, exit sequence or trailing sections.
func (p *Program) Body() []string {
	return p.Lines[p.bodyStart:p.bodyEnd]
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, line := range p.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String())
	return int64(n), err
}
