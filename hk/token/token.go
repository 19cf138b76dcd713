package token

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Position is a 1-based line and column in the original source.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether both coordinates are set.
func (p Position) IsValid() bool {
	return p.Line >= 1 && p.Column >= 1
}

// Token is one lexical unit. Tokens are immutable once built by New.
type Token struct {
	kind Kind
	text string
	pos  Position
}

func New(kind Kind, text string, pos Position) Token {
	return Token{kind: kind, text: text, pos: pos}
}

func (t Token) Kind() Kind    { return t.kind }
func (t Token) Text() string  { return t.text }
func (t Token) Pos() Position { return t.pos }
func (t Token) IsZero() bool  { return t == Token{} }

func (t Token) Is(k Kind, text string) bool {
	return t.kind == k && t.text == text
}

// softKeywords are reserved by the parser but missing from the tokenizer's
// keyword list, so they arrive as identifiers.
var softKeywords = map[string]bool{
	"return": true,
}

// IsSoftKeyword reports whether word is reserved even when it is lexed as
// an Identifier.
func IsSoftKeyword(word string) bool {
	return softKeywords[word]
}

// IsKeyword reports whether t is the keyword word, either as a Keyword token
// or, for a soft keyword, as an Identifier spelled the same way.
func (t Token) IsKeyword(word string) bool {
	if t.text != word {
		return false
	}
	return t.kind == Keyword || t.kind == Identifier && softKeywords[word]
}

// End returns the position just past the last character of the token.
func (t Token) End() Position {
	n := utf8.RuneCountInString(t.text)
	if n == 0 {
		n = 1
	}
	return Position{Line: t.pos.Line, Column: t.pos.Column + n}
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.kind, t.text, t.pos)
}

type wireToken struct {
	TokenType string `json:"token_type"`
	Value     string `json:"value"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

// MarshalJSON encodes the token in the line-record wire format.
// Relational operators are written as-is rather than HTML-escaped.
func (t Token) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(wireToken{
		TokenType: t.kind.String(),
		Value:     t.text,
		Line:      t.pos.Line,
		Column:    t.pos.Column,
	})
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), err
}
