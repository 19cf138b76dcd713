package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/hkast/hk/ast"
)

// InfixEncoder writes expressions fully parenthesised, one per line. For
// a program it writes each top-level statement on its own line, rendering
// the expressions it contains the same way.
type InfixEncoder struct {
	w io.Writer
}

func NewInfixEncoder(w io.Writer) *InfixEncoder {
	return &InfixEncoder{w: w}
}

func (e *InfixEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *InfixEncoder) MarshalText(node ast.Node) ([]byte, error) {
	if node == nil {
		return nil, fmt.Errorf("infix: no tree to render")
	}
	var sb strings.Builder
	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Stmts {
			sb.WriteString(stmtInfix(s))
			sb.WriteByte('\n')
		}
	case ast.Expr:
		sb.WriteString(ast.Infix(n))
		sb.WriteByte('\n')
	case ast.Stmt:
		sb.WriteString(stmtInfix(n))
		sb.WriteByte('\n')
	default:
		return nil, fmt.Errorf("infix: cannot render %s", node.Kind())
	}
	return []byte(sb.String()), nil
}

func stmtInfix(s ast.Stmt) string {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return ast.Infix(s.X) + ";"
	case *ast.VarDecl:
		kw := "let"
		if s.Const {
			kw = "const"
		}
		out := kw + " " + s.Name.Name
		if s.Type != nil {
			out += ": " + s.Type.Name
		}
		if s.Value != nil {
			out += " = " + ast.Infix(s.Value)
		}
		return out + ";"
	case *ast.ReturnStmt:
		if s.Result == nil {
			return "return;"
		}
		return "return " + ast.Infix(s.Result) + ";"
	case *ast.BadStmt:
		return fmt.Sprintf("<bad %s..%s>", s.From, s.To)
	}
	return fmt.Sprintf("<%s at %s>", s.Kind(), s.Pos())
}
