package ast

import "github.com/dhamidi/hkast/hk/token"

type (
	// VarDecl is let or const. Type is nil when no annotation was given.
	VarDecl struct {
		DeclPos token.Position
		Const   bool
		Name    *Identifier
		Type    *TypeRef
		Value   Expr
	}

	FuncDecl struct {
		Func   token.Position
		Name   *Identifier
		Params []*Field
		Result *TypeRef
		Body   *BlockStmt
	}

	StructDecl struct {
		Struct token.Position
		Name   *Identifier
		Fields []*Field
	}

	// Field is a name with an optional type, used for parameters and
	// structure members.
	Field struct {
		Name *Identifier
		Type *TypeRef
	}

	// TypeRef names a type. Builtin is set for the primitive type
	// keywords (num, float, char, bool, addr, nothing).
	TypeRef struct {
		Name    string
		NamePos token.Position
		Builtin bool
	}
)

func (d *VarDecl) Pos() token.Position    { return d.DeclPos }
func (d *FuncDecl) Pos() token.Position   { return d.Func }
func (d *StructDecl) Pos() token.Position { return d.Struct }
func (f *Field) Pos() token.Position      { return f.Name.Pos() }
func (t *TypeRef) Pos() token.Position    { return t.NamePos }

func (*VarDecl) Kind() NodeKind    { return KindVarDecl }
func (*FuncDecl) Kind() NodeKind   { return KindFuncDecl }
func (*StructDecl) Kind() NodeKind { return KindStructDecl }
func (*Field) Kind() NodeKind      { return KindField }
func (*TypeRef) Kind() NodeKind    { return KindTypeRef }

func (*VarDecl) node()    {}
func (*FuncDecl) node()   {}
func (*StructDecl) node() {}
func (*Field) node()      {}
func (*TypeRef) node()    {}

func (*VarDecl) stmtNode()    {}
func (*FuncDecl) stmtNode()   {}
func (*StructDecl) stmtNode() {}

func (*VarDecl) declNode()    {}
func (*FuncDecl) declNode()   {}
func (*StructDecl) declNode() {}
