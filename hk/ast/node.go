// Package ast declares the syntax tree built by package parser.
//
// Node is a closed set: every variant is declared in this package and
// carries an unexported marker method, so consumers may switch over the
// concrete types knowing no other implementations exist. Children is the
// one place that enumerates the shape of every variant; Walk and Inspect
// are built on it.
package ast

import "github.com/dhamidi/hkast/hk/token"

type NodeKind int

const (
	KindBadExpr NodeKind = iota
	KindBadStmt

	KindProgram

	// Expressions
	KindLiteral
	KindIdentifier
	KindUnaryExpr
	KindBinaryExpr
	KindGrouping
	KindCallExpr
	KindSelectorExpr

	// Statements
	KindExprStmt
	KindBlockStmt
	KindIfStmt
	KindWhileStmt
	KindForStmt
	KindReturnStmt

	// Declarations
	KindVarDecl
	KindFuncDecl
	KindStructDecl
	KindField
	KindTypeRef
)

var nodeKindNames = map[NodeKind]string{
	KindBadExpr:      "BadExpr",
	KindBadStmt:      "BadStmt",
	KindProgram:      "Program",
	KindLiteral:      "Literal",
	KindIdentifier:   "Identifier",
	KindUnaryExpr:    "UnaryExpr",
	KindBinaryExpr:   "BinaryExpr",
	KindGrouping:     "Grouping",
	KindCallExpr:     "CallExpr",
	KindSelectorExpr: "SelectorExpr",
	KindExprStmt:     "ExprStmt",
	KindBlockStmt:    "BlockStmt",
	KindIfStmt:       "IfStmt",
	KindWhileStmt:    "WhileStmt",
	KindForStmt:      "ForStmt",
	KindReturnStmt:   "ReturnStmt",
	KindVarDecl:      "VarDecl",
	KindFuncDecl:     "FuncDecl",
	KindStructDecl:   "StructDecl",
	KindField:        "Field",
	KindTypeRef:      "TypeRef",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is implemented by every tree node. Pos is the position of the
// node's leading token.
type Node interface {
	Pos() token.Position
	Kind() NodeKind
	node()
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Decl is a statement that introduces a name.
type Decl interface {
	Stmt
	declNode()
}

// Program is the root of a parsed token stream.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.Position{}
}

func (*Program) Kind() NodeKind { return KindProgram }
func (*Program) node()          {}
