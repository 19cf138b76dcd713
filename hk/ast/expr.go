package ast

import "github.com/dhamidi/hkast/hk/token"

type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitNothing
)

func (k LiteralKind) String() string {
	switch k {
	case LitNumber:
		return "number"
	case LitString:
		return "string"
	case LitNothing:
		return "nothing"
	}
	return "unknown"
}

type (
	// Literal is a number, a string or character literal, or nothing.
	Literal struct {
		LitKind  LiteralKind
		Value    string
		ValuePos token.Position
	}

	Identifier struct {
		Name    string
		NamePos token.Position
	}

	// UnaryExpr is a prefix operator applied to X: "-", "addrOf" or
	// "dataAt".
	UnaryExpr struct {
		Op    string
		OpPos token.Position
		X     Expr
	}

	// BinaryExpr always holds both operands and the operator token.
	BinaryExpr struct {
		X  Expr
		Op token.Token
		Y  Expr
	}

	// Grouping is a parenthesised expression.
	Grouping struct {
		Lparen token.Position
		X      Expr
		Rparen token.Position
	}

	CallExpr struct {
		Fun    Expr
		Lparen token.Position
		Args   []Expr
		Rparen token.Position
	}

	// SelectorExpr is a field access X.Sel.
	SelectorExpr struct {
		X   Expr
		Dot token.Position
		Sel *Identifier
	}

	// BadExpr stands in for an expression that failed to parse.
	BadExpr struct {
		From, To token.Position
	}
)

func (x *Literal) Pos() token.Position      { return x.ValuePos }
func (x *Identifier) Pos() token.Position   { return x.NamePos }
func (x *UnaryExpr) Pos() token.Position    { return x.OpPos }
func (x *BinaryExpr) Pos() token.Position   { return x.X.Pos() }
func (x *Grouping) Pos() token.Position     { return x.Lparen }
func (x *CallExpr) Pos() token.Position     { return x.Fun.Pos() }
func (x *SelectorExpr) Pos() token.Position { return x.X.Pos() }
func (x *BadExpr) Pos() token.Position      { return x.From }

func (*Literal) Kind() NodeKind      { return KindLiteral }
func (*Identifier) Kind() NodeKind   { return KindIdentifier }
func (*UnaryExpr) Kind() NodeKind    { return KindUnaryExpr }
func (*BinaryExpr) Kind() NodeKind   { return KindBinaryExpr }
func (*Grouping) Kind() NodeKind     { return KindGrouping }
func (*CallExpr) Kind() NodeKind     { return KindCallExpr }
func (*SelectorExpr) Kind() NodeKind { return KindSelectorExpr }
func (*BadExpr) Kind() NodeKind      { return KindBadExpr }

func (*Literal) node()      {}
func (*Identifier) node()   {}
func (*UnaryExpr) node()    {}
func (*BinaryExpr) node()   {}
func (*Grouping) node()     {}
func (*CallExpr) node()     {}
func (*SelectorExpr) node() {}
func (*BadExpr) node()      {}

func (*Literal) exprNode()      {}
func (*Identifier) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*Grouping) exprNode()     {}
func (*CallExpr) exprNode()     {}
func (*SelectorExpr) exprNode() {}
func (*BadExpr) exprNode()      {}
