package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Infix renders an expression with every BinaryExpr wrapped in
// parentheses, so the grouping chosen by the parser is explicit. Grouping
// nodes add no parentheses of their own.
func Infix(e Expr) string {
	var b strings.Builder
	writeInfix(&b, e)
	return b.String()
}

func writeInfix(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Literal:
		switch e.LitKind {
		case LitString:
			b.WriteString(strconv.Quote(e.Value))
		default:
			b.WriteString(e.Value)
		}
	case *Identifier:
		b.WriteString(e.Name)
	case *UnaryExpr:
		if e.Op == "-" {
			b.WriteString("-")
			writeInfix(b, e.X)
			return
		}
		b.WriteString(e.Op)
		b.WriteString("(")
		writeInfix(b, e.X)
		b.WriteString(")")
	case *BinaryExpr:
		b.WriteString("(")
		writeInfix(b, e.X)
		b.WriteString(" ")
		b.WriteString(e.Op.Text())
		b.WriteString(" ")
		writeInfix(b, e.Y)
		b.WriteString(")")
	case *Grouping:
		writeInfix(b, e.X)
	case *CallExpr:
		writeInfix(b, e.Fun)
		b.WriteString("(")
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeInfix(b, a)
		}
		b.WriteString(")")
	case *SelectorExpr:
		writeInfix(b, e.X)
		b.WriteString(".")
		b.WriteString(e.Sel.Name)
	case *BadExpr:
		b.WriteString("<bad>")
	case nil:
		b.WriteString("<nil>")
	default:
		panic(fmt.Sprintf("ast: unexpected expression type %T", e))
	}
}
