package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"syntax-error", "syntax-error"},
		{"eof", "eof"},
		{"x", "x"},
		{"+", "+"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeSymbol)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`"')'"`, "')'", `"')'"`},
		{`""`, "", `""`},
		{`"test\"quote"`, `test"quote`, `"test\"quote"`},
		{`"test\\backslash"`, `test\backslash`, `"test\\backslash"`},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeString)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.output)
	}
}

func TestParseStringEscapes(t *testing.T) {
	result, err := Parse(`"a\nb\tc"`)
	be.Err(t, err, nil)
	be.Equal(t, result.Text, "a\nb\tc")
}

func TestParseInteger(t *testing.T) {
	for _, input := range []string{"42", "0", "-123", "+456"} {
		result, err := Parse(input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeInteger)
		be.Equal(t, result.Text, input)
		be.Equal(t, result.String(), input)
	}
}

func TestParseList(t *testing.T) {
	result, err := Parse(`(syntax-error "Factor" eof)`)
	be.Err(t, err, nil)

	be.Equal(t, result.Type, NodeList)
	be.Equal(t, len(result.Items), 3)
	be.Equal(t, result.Items[0].Type, NodeSymbol)
	be.Equal(t, result.Items[1].Type, NodeString)
	be.Equal(t, result.Items[2].Text, "eof")
	be.Equal(t, result.String(), `(syntax-error "Factor" eof)`)
}

func TestParseNested(t *testing.T) {
	result, err := Parse(`(a (b 1) {c d})`)
	be.Err(t, err, nil)
	be.Equal(t, result.String(), `(a (b 1) {c d})`)
	be.Equal(t, result.Items[1].Type, NodeList)
	be.Equal(t, result.Items[2].Type, NodeSet)
}

func TestParseSet(t *testing.T) {
	result, err := Parse("{x y}")
	be.Err(t, err, nil)
	be.Equal(t, result.Type, NodeSet)
	be.Equal(t, len(result.Items), 2)

	empty, err := Parse("{}")
	be.Err(t, err, nil)
	be.Equal(t, empty.Type, NodeSet)
	be.Equal(t, len(empty.Items), 0)
	be.Equal(t, empty.String(), "{}")
}

func TestMembers(t *testing.T) {
	result, err := Parse(`{y x "z"}`)
	be.Err(t, err, nil)

	members, err := result.Members()
	be.Err(t, err, nil)
	be.Equal(t, members, []string{"x", "y", "z"})
}

func TestMembersRejectsNonSet(t *testing.T) {
	result, err := Parse("(x y)")
	be.Err(t, err, nil)

	_, err = result.Members()
	be.True(t, err != nil)

	nested, err := Parse("{(x)}")
	be.Err(t, err, nil)
	_, err = nested.Members()
	be.True(t, err != nil)
}

func TestParseComments(t *testing.T) {
	result, err := Parse("; leading comment\n(x ; trailing\n y)")
	be.Err(t, err, nil)
	be.Equal(t, result.String(), "(x y)")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"(x", "expected ')' but got EOF"},
		{"{x", "expected '}' but got EOF"},
		{")", "unexpected token: ')'"},
		{`"open`, "unterminated string"},
		{`"\q"`, "invalid escape sequence"},
		{"x y", "expected EOF but got symbol"},
		{"[x]", "unexpected character '['"},
	}

	for _, test := range tests {
		_, err := Parse(test.input)
		be.True(t, err != nil)
		be.True(t, strings.Contains(err.Error(), test.message))
	}
}
