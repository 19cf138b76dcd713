package parser

import (
	"fmt"

	"github.com/dhamidi/hkast/hk/token"
)

// SyntaxError describes input that does not match the grammar.
type SyntaxError struct {
	Msg      string
	Expected string         // the construct the parser was looking for
	Pos      token.Position // offending token, or just past the last token at end of input
	AtEOF    bool
	Got      *token.Token
	Opener   *token.Position // unclosed '(' or '{', if that is the cause
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorList is the set of syntax errors recorded while parsing with
// recovery enabled, in the order they were found.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns l as an error, or nil when l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func describe(tok token.Token) string {
	switch tok.Kind() {
	case token.Keyword:
		return fmt.Sprintf("keyword '%s'", tok.Text())
	case token.Identifier:
		return fmt.Sprintf("identifier '%s'", tok.Text())
	case token.Number:
		return fmt.Sprintf("number %s", tok.Text())
	case token.Literal:
		return fmt.Sprintf("literal %q", tok.Text())
	case token.Punctuation, token.Relop, token.MathematicalOp, token.LogicalOp:
		return fmt.Sprintf("'%s'", tok.Text())
	}
	return tok.String()
}
