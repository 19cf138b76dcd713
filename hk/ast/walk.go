package ast

import "fmt"

// Children returns the direct children of n in source order. Absent
// optional children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNilNode(c) {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Stmts {
			add(s)
		}

	case *Literal, *Identifier, *BadExpr, *BadStmt, *TypeRef:
		// leaves

	case *UnaryExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.X)
		add(n.Y)
	case *Grouping:
		add(n.X)
	case *CallExpr:
		add(n.Fun)
		for _, a := range n.Args {
			add(a)
		}
	case *SelectorExpr:
		add(n.X)
		add(n.Sel)

	case *ExprStmt:
		add(n.X)
	case *BlockStmt:
		for _, s := range n.Stmts {
			add(s)
		}
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *ForStmt:
		add(n.Init)
		add(n.Cond)
		add(n.Post)
		add(n.Body)
	case *ReturnStmt:
		add(n.Result)

	case *VarDecl:
		add(n.Name)
		add(n.Type)
		add(n.Value)
	case *FuncDecl:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Result)
		add(n.Body)
	case *StructDecl:
		add(n.Name)
		for _, f := range n.Fields {
			add(f)
		}
	case *Field:
		add(n.Name)
		add(n.Type)

	default:
		panic(fmt.Sprintf("ast: unexpected node type %T", n))
	}
	return out
}

// isNilNode catches typed nil pointers stored in interface fields, such as
// a nil *TypeRef or *BlockStmt.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *TypeRef:
		return n == nil
	case *BlockStmt:
		return n == nil
	case *Identifier:
		return n == nil
	case *IfStmt:
		return n == nil
	}
	return false
}

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children of
// node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order, calling f for each node
// and then f(nil) after its children. Returning false skips the children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
