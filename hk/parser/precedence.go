package parser

import (
	"fmt"

	"github.com/dhamidi/hkast/hk/token"
)

type assoc int

const (
	assocLeft assoc = iota
	assocRight
	assocNone
)

type operator struct {
	bp    int
	assoc assoc
}

// Binding powers, lowest first. Relational operators share one level and
// do not associate, so "a < b == c" is rejected just like "a < b < c".
const (
	bpAssign     = 10
	bpOr         = 20
	bpXor        = 25
	bpAnd        = 30
	bpBitOr      = 40
	bpBitXor     = 45
	bpBitAnd     = 50
	bpRelational = 60
	bpAdditive   = 70
	bpMultiply   = 80
	bpPower      = 90
)

var mathOperators = map[string]operator{
	"=": {bpAssign, assocRight},
	"+": {bpAdditive, assocLeft},
	"-": {bpAdditive, assocLeft},
	"*": {bpMultiply, assocLeft},
	"/": {bpMultiply, assocLeft},
	"%": {bpMultiply, assocLeft},
	"^": {bpPower, assocLeft},
}

var logicalOperators = map[string]operator{
	"or":         {bpOr, assocLeft},
	"xor":        {bpXor, assocLeft},
	"and":        {bpAnd, assocLeft},
	"bitwiseOr":  {bpBitOr, assocLeft},
	"bitwiseXor": {bpBitXor, assocLeft},
	"bitwiseAnd": {bpBitAnd, assocLeft},
}

var relationalOperators = map[string]operator{
	"==": {bpRelational, assocNone},
	"!=": {bpRelational, assocNone},
	"<":  {bpRelational, assocNone},
	"<=": {bpRelational, assocNone},
	">":  {bpRelational, assocNone},
	">=": {bpRelational, assocNone},
}

// lookupOperator returns the infix entry for tok. Operator kinds with an
// unlisted spelling are not infix operators.
func lookupOperator(tok token.Token) (operator, bool) {
	var table map[string]operator
	switch tok.Kind() {
	case token.MathematicalOp:
		table = mathOperators
	case token.LogicalOp:
		table = logicalOperators
	case token.Relop:
		table = relationalOperators
	case token.Keyword, token.Identifier, token.Number, token.Literal, token.Punctuation:
		return operator{}, false
	default:
		panic(fmt.Sprintf("parser: unhandled token kind %v", tok.Kind()))
	}
	op, ok := table[tok.Text()]
	return op, ok
}
