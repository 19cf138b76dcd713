package ast

import "github.com/dhamidi/hkast/hk/token"

type (
	ExprStmt struct {
		X Expr
	}

	BlockStmt struct {
		Lbrace token.Position
		Stmts  []Stmt
		Rbrace token.Position
	}

	// IfStmt covers if, elif and else. An elif chain is a nested IfStmt
	// in Else with Elif set; a plain else is a *BlockStmt.
	IfStmt struct {
		If   token.Position
		Elif bool
		Cond Expr
		Then *BlockStmt
		Else Stmt
	}

	WhileStmt struct {
		While token.Position
		Cond  Expr
		Body  *BlockStmt
	}

	// ForStmt is for (Init; Cond; Post) Body. Any of Init, Cond and Post
	// may be nil.
	ForStmt struct {
		For  token.Position
		Init Stmt
		Cond Expr
		Post Expr
		Body *BlockStmt
	}

	ReturnStmt struct {
		Return token.Position
		Result Expr
	}

	// BadStmt covers the tokens skipped while recovering from a syntax
	// error.
	BadStmt struct {
		From, To token.Position
	}
)

func (s *ExprStmt) Pos() token.Position   { return s.X.Pos() }
func (s *BlockStmt) Pos() token.Position  { return s.Lbrace }
func (s *IfStmt) Pos() token.Position     { return s.If }
func (s *WhileStmt) Pos() token.Position  { return s.While }
func (s *ForStmt) Pos() token.Position    { return s.For }
func (s *ReturnStmt) Pos() token.Position { return s.Return }
func (s *BadStmt) Pos() token.Position    { return s.From }

func (*ExprStmt) Kind() NodeKind   { return KindExprStmt }
func (*BlockStmt) Kind() NodeKind  { return KindBlockStmt }
func (*IfStmt) Kind() NodeKind     { return KindIfStmt }
func (*WhileStmt) Kind() NodeKind  { return KindWhileStmt }
func (*ForStmt) Kind() NodeKind    { return KindForStmt }
func (*ReturnStmt) Kind() NodeKind { return KindReturnStmt }
func (*BadStmt) Kind() NodeKind    { return KindBadStmt }

func (*ExprStmt) node()   {}
func (*BlockStmt) node()  {}
func (*IfStmt) node()     {}
func (*WhileStmt) node()  {}
func (*ForStmt) node()    {}
func (*ReturnStmt) node() {}
func (*BadStmt) node()    {}

func (*ExprStmt) stmtNode()   {}
func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*BadStmt) stmtNode()    {}
