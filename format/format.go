package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/token"
)

// Encoder writes a syntax tree to an underlying writer.
type Encoder interface {
	Encode(node ast.Node) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"json":  func(w io.Writer) Encoder { return NewASTJSONEncoder(w) },
	"tree":  func(w io.Writer) Encoder { return NewTreeEncoder(w) },
	"infix": func(w io.Writer) Encoder { return NewInfixEncoder(w) },
	"lines": func(w io.Writer) Encoder { return NewLineEncoder(w) },
}

// New returns the encoder registered under name.
func New(name string, w io.Writer) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return mk(w), nil
}

// Names lists the registered encoder names.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// describe returns the operator or value that distinguishes n from other
// nodes of its kind, and flags such as "const" or "builtin".
func describe(n ast.Node) (op, value string, flags []string) {
	switch n := n.(type) {
	case *ast.Literal:
		value = n.Value
		flags = append(flags, n.LitKind.String())
	case *ast.Identifier:
		value = n.Name
	case *ast.UnaryExpr:
		op = n.Op
	case *ast.BinaryExpr:
		op = n.Op.Text()
	case *ast.TypeRef:
		value = n.Name
		if n.Builtin {
			flags = append(flags, "builtin")
		}
	case *ast.VarDecl:
		if n.Const {
			flags = append(flags, "const")
		}
	case *ast.IfStmt:
		if n.Elif {
			flags = append(flags, "elif")
		}
	}
	return op, value, flags
}

// badEnd returns where a recovery placeholder ends.
func badEnd(n ast.Node) (token.Position, bool) {
	switch n := n.(type) {
	case *ast.BadStmt:
		return n.To, true
	case *ast.BadExpr:
		return n.To, true
	}
	return token.Position{}, false
}
