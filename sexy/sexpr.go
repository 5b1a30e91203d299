package sexy

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// NodeType represents the type of a Node
type NodeType int

const (
	NodeSymbol NodeType = iota
	NodeString
	NodeInteger
	NodeList
	NodeSet
)

// Node represents any Sexy datum
type Node struct {
	Type NodeType

	Text  string  // NodeSymbol, NodeString, NodeInteger
	Items []*Node // NodeList, NodeSet
}

func (n *Node) String() string {
	switch n.Type {
	case NodeSymbol, NodeInteger:
		return n.Text
	case NodeString:
		escaped := strings.ReplaceAll(n.Text, "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		return fmt.Sprintf("\"%s\"", escaped)
	case NodeList:
		return "(" + joinItems(n.Items) + ")"
	case NodeSet:
		return "{" + joinItems(n.Items) + "}"
	default:
		return fmt.Sprintf("UNKNOWN_NODE_TYPE_%d", n.Type)
	}
}

func joinItems(items []*Node) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " ")
}

func NewSymbol(name string) *Node {
	return &Node{Type: NodeSymbol, Text: name}
}

func NewString(value string) *Node {
	return &Node{Type: NodeString, Text: value}
}

func NewInteger(text string) *Node {
	return &Node{Type: NodeInteger, Text: text}
}

func NewList(items []*Node) *Node {
	return &Node{Type: NodeList, Items: items}
}

func NewSet(items []*Node) *Node {
	return &Node{Type: NodeSet, Items: items}
}

// IsAtom checks if the node is an atomic value
func (n *Node) IsAtom() bool {
	return n.Type == NodeSymbol || n.Type == NodeString || n.Type == NodeInteger
}

// Members returns the sorted textual members of a set of atoms. It fails
// if n is not a set or holds a collection.
func (n *Node) Members() ([]string, error) {
	if n.Type != NodeSet {
		return nil, fmt.Errorf("expected set but got %s", n)
	}
	members := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		if !item.IsAtom() {
			return nil, fmt.Errorf("set member %s is not an atom", item)
		}
		members = append(members, item.Text)
	}
	sort.Strings(members)
	return members, nil
}

type parser struct {
	lexer        *lexer
	currentToken token
}

// Parse parses the entire input and returns the top-level datum
func Parse(input string) (*Node, error) {
	p := &parser{lexer: newLexer(input)}
	p.nextToken()

	result, err := p.parseDatum()
	if len(p.lexer.errors) > 0 {
		// Lexer errors take priority because they might cause confusing parser errors.
		return nil, fmt.Errorf("%s", p.lexer.errors[0])
	}
	if err != nil {
		return nil, err
	}

	if p.currentToken.Type != tokenEOF {
		return nil, fmt.Errorf("expected EOF but got %s", p.currentToken.Type)
	}

	return result, nil
}

func (p *parser) nextToken() {
	p.currentToken = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Node, error) {
	switch p.currentToken.Type {
	case tokenSymbol:
		node := NewSymbol(p.currentToken.Value)
		p.nextToken()
		return node, nil
	case tokenString:
		node := NewString(p.currentToken.Value)
		p.nextToken()
		return node, nil
	case tokenInteger:
		node := NewInteger(p.currentToken.Value)
		p.nextToken()
		return node, nil
	case tokenLParen:
		items, err := p.parseItems(tokenRParen)
		if err != nil {
			return nil, err
		}
		return NewList(items), nil
	case tokenLBrace:
		items, err := p.parseItems(tokenRBrace)
		if err != nil {
			return nil, err
		}
		return NewSet(items), nil
	default:
		return nil, fmt.Errorf("unexpected token: %s", p.currentToken.Type)
	}
}

// parseItems parses data after an opening delimiter up to and including
// the closing token.
func (p *parser) parseItems(closing tokenType) ([]*Node, error) {
	var items []*Node
	p.nextToken() // consume opening delimiter

	for p.currentToken.Type != closing && p.currentToken.Type != tokenEOF {
		item, err := p.parseDatum()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if p.currentToken.Type != closing {
		return nil, fmt.Errorf("expected %s but got %s", closing, p.currentToken.Type)
	}
	p.nextToken() // consume closing delimiter

	return items, nil
}

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenSymbol
	tokenString
	tokenInteger
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "EOF"
	case tokenSymbol:
		return "symbol"
	case tokenString:
		return "string"
	case tokenInteger:
		return "integer"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenLBrace:
		return "'{'"
	case tokenRBrace:
		return "'}'"
	default:
		return fmt.Sprintf("unknown token %d", int(t))
	}
}

type token struct {
	Type     tokenType
	Value    string
	Position int
}

type lexer struct {
	input    []rune
	position int
	current  rune
	errors   []string
}

func newLexer(input string) *lexer {
	l := &lexer{input: []rune(input)}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.position >= len(l.input) {
		l.current = 0
	} else {
		l.current = l.input[l.position]
	}
	l.position++
}

func (l *lexer) peekChar() rune {
	if l.position >= len(l.input) {
		return 0
	}
	return l.input[l.position]
}

func (l *lexer) skipWhitespace() {
	for unicode.IsSpace(l.current) {
		l.readChar()
	}
}

func (l *lexer) skipComment() {
	for l.current != '\n' && l.current != '\r' && l.current != 0 {
		l.readChar()
	}
}

func (l *lexer) readWhile(pred func(rune) bool) string {
	start := l.position - 1
	for l.current != 0 && pred(l.current) {
		l.readChar()
	}
	return string(l.input[start : l.position-1])
}

func (l *lexer) readString() (string, error) {
	var sb strings.Builder
	l.readChar() // skip opening quote

	for l.current != '"' && l.current != 0 {
		if l.current == '\\' {
			l.readChar()
			switch l.current {
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", l.current)
			}
		} else {
			sb.WriteRune(l.current)
		}
		l.readChar()
	}

	if l.current != '"' {
		return "", fmt.Errorf("unterminated string")
	}
	l.readChar() // skip closing quote

	return sb.String(), nil
}

func (l *lexer) nextToken() token {
	for {
		l.skipWhitespace()

		pos := l.position - 1

		switch l.current {
		case 0:
			return token{Type: tokenEOF, Position: pos}
		case ';':
			l.skipComment()
			continue
		case '(':
			l.readChar()
			return token{Type: tokenLParen, Value: "(", Position: pos}
		case ')':
			l.readChar()
			return token{Type: tokenRParen, Value: ")", Position: pos}
		case '{':
			l.readChar()
			return token{Type: tokenLBrace, Value: "{", Position: pos}
		case '}':
			l.readChar()
			return token{Type: tokenRBrace, Value: "}", Position: pos}
		case '"':
			str, err := l.readString()
			if err != nil {
				l.errors = append(l.errors, err.Error())
				return token{Type: tokenEOF, Position: pos}
			}
			return token{Type: tokenString, Value: str, Position: pos}
		default:
			if unicode.IsDigit(l.current) || ((l.current == '+' || l.current == '-') && unicode.IsDigit(l.peekChar())) {
				l.readChar()
				digits := l.readWhile(unicode.IsDigit)
				return token{Type: tokenInteger, Value: string(l.input[pos]) + digits, Position: pos}
			}
			if isSymbolChar(l.current) {
				return token{Type: tokenSymbol, Value: l.readWhile(isSymbolChar), Position: pos}
			}
			l.errors = append(l.errors, fmt.Sprintf("unexpected character '%c'", l.current))
			return token{Type: tokenEOF, Position: pos}
		}
	}
}

func isSymbolChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("-_+*/=!?<>", r)
}
