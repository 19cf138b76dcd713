package token

import "fmt"

// Kind is the lexical category of a token as assigned by the upstream
// tokenizer. The set is closed.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	Number
	Literal
	Punctuation
	Relop
	MathematicalOp
	LogicalOp

	numKinds
)

// kindNames holds the canonical wire spelling of each kind. The array is
// sized by numKinds so a new constant without a name shows up as an empty
// entry, which TestKindBijection rejects.
var kindNames = [numKinds]string{
	Keyword:        "Keyword",
	Identifier:     "Identifier",
	Number:         "Number",
	Literal:        "Literal",
	Punctuation:    "Punctuation",
	Relop:          "Relop",
	MathematicalOp: "MathematicalOp",
	LogicalOp:      "LogicalOp",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

func (k Kind) String() string {
	if k >= 0 && k < numKinds {
		return kindNames[k]
	}
	return "Unknown"
}

// Valid reports whether k is a member of the enumeration.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// IsOperator reports whether tokens of this kind can appear in infix
// position.
func (k Kind) IsOperator() bool {
	switch k {
	case Relop, MathematicalOp, LogicalOp:
		return true
	case Keyword, Identifier, Number, Literal, Punctuation:
		return false
	}
	panic(fmt.Sprintf("token: unhandled kind %d", int(k)))
}

// ParseKind maps a wire name to its Kind. Matching is exact.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindsByName[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown token kind %q", name)
}

// Kinds returns every member of the enumeration in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}
