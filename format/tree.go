package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/hkast/hk/ast"
)

// TreeEncoder writes one line per node, indented by depth:
//
//	Program
//	  ExprStmt 1:1
//	    BinaryExpr 1:1 +
//	      Literal 1:1 1 [number]
type TreeEncoder struct {
	w      io.Writer
	indent string
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w, indent: "  "}
}

func (e *TreeEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(node ast.Node) ([]byte, error) {
	var sb strings.Builder
	ast.Walk(&treeVisitor{sb: &sb, indent: e.indent}, node)
	return []byte(sb.String()), nil
}

type treeVisitor struct {
	sb     *strings.Builder
	indent string
	depth  int
}

func (v *treeVisitor) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		return nil
	}
	v.sb.WriteString(strings.Repeat(v.indent, v.depth))
	v.sb.WriteString(n.Kind().String())
	if pos := n.Pos(); pos.IsValid() {
		fmt.Fprintf(v.sb, " %s", pos)
	}
	op, value, flags := describe(n)
	if op != "" {
		fmt.Fprintf(v.sb, " %s", op)
	}
	if value != "" {
		fmt.Fprintf(v.sb, " %s", value)
	}
	if len(flags) > 0 {
		fmt.Fprintf(v.sb, " [%s]", strings.Join(flags, " "))
	}
	if end, ok := badEnd(n); ok {
		fmt.Fprintf(v.sb, " ..%s", end)
	}
	v.sb.WriteByte('\n')
	return &treeVisitor{sb: v.sb, indent: v.indent, depth: v.depth + 1}
}
