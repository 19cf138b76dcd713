package parser

import (
	"errors"
	"fmt"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/token"
)

// errHalted unwinds nested statement lists once the error limit is hit.
var errHalted = errors.New("error limit reached")

var statementKeywords = map[string]bool{
	"let":       true,
	"const":     true,
	"function":  true,
	"structure": true,
	"if":        true,
	"while":     true,
	"for":       true,
	"return":    true,
}

var builtinTypes = map[string]bool{
	"num":     true,
	"float":   true,
	"char":    true,
	"bool":    true,
	"addr":    true,
	"nothing": true,
}

// startsStatement reports whether tok can only begin a new statement.
func startsStatement(tok token.Token) bool {
	return statementKeywords[tok.Text()] && tok.IsKeyword(tok.Text())
}

// parseStmtList parses statements until the input ends or stop reports
// true. With recovery enabled a failed statement is recorded, replaced by
// a BadStmt and skipped.
func (p *Parser) parseStmtList(stop func() bool) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.atEnd() && !stop() {
		if p.matchPunct(";") {
			continue
		}
		start := p.buf.Mark()
		first, _ := p.peek()

		stmt, err := p.parseStatement()
		if err == nil {
			stmts = append(stmts, stmt)
			continue
		}
		if errors.Is(err, errHalted) || !p.recover {
			return stmts, err
		}
		if !p.record(err) {
			return stmts, errHalted
		}
		p.log.Debugf("recovering from syntax error at %s", first.Pos())
		p.synchronize(start)
		bad := &ast.BadStmt{From: first.Pos(), To: first.Pos()}
		if last, ok := p.buf.Last(); ok {
			bad.To = last.Pos()
		}
		stmts = append(stmts, bad)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	tok, _ := p.peek()
	switch tok.Kind() {
	case token.Keyword:
		switch tok.Text() {
		case "let", "const":
			return p.parseVarStmt()
		case "function":
			return p.parseFuncDecl()
		case "structure":
			return p.parseStructDecl()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseFor()
		case "return":
			return p.parseReturn()
		case "nothing", "addrOf", "dataAt":
			return p.parseExprStmt()
		case "else", "elif":
			return nil, p.strayBranch(tok)
		}
		return nil, p.unexpected(tok, "statement")
	case token.Punctuation:
		if tok.Text() == "{" {
			return p.parseBlock()
		}
		return p.parseExprStmt()
	case token.Identifier:
		if tok.IsKeyword("return") {
			return p.parseReturn()
		}
		return p.parseExprStmt()
	case token.Number, token.Literal, token.Relop, token.MathematicalOp, token.LogicalOp:
		return p.parseExprStmt()
	default:
		panic(fmt.Sprintf("parser: unhandled token kind %v", tok.Kind()))
	}
}

// strayBranch reports an else or elif that follows no if. The branch's
// condition and block are consumed with it so that recovery resumes after
// the whole clause.
func (p *Parser) strayBranch(tok token.Token) error {
	err := p.unexpected(tok, "statement")
	p.advance()
	if tok.Text() == "elif" {
		p.skipBalanced("(", ")")
	}
	p.skipBalanced("{", "}")
	return err
}

// skipBalanced consumes a bracketed run starting at open, up to and
// including the matching close or the end of input. It does nothing when
// the next token is not open.
func (p *Parser) skipBalanced(open, close string) {
	if !p.checkPunct(open) {
		return
	}
	depth := 0
	for !p.atEnd() {
		tok := p.advance()
		switch {
		case tok.Is(token.Punctuation, open):
			depth++
		case tok.Is(token.Punctuation, close):
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// terminate consumes the ';' ending a simple statement. The last
// statement of the stream may omit it.
func (p *Parser) terminate() error {
	if p.matchPunct(";") || p.atEnd() {
		return nil
	}
	tok, _ := p.peek()
	return p.unexpected(tok, "';'")
}

func (p *Parser) parseExprStmt() (ast.Stmt, error) {
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.terminate(); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{X: x}, nil
}

func (p *Parser) parseVarStmt() (ast.Stmt, error) {
	decl, err := p.parseVarDecl()
	if err != nil {
		return nil, err
	}
	if err := p.terminate(); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseVarDecl parses let/const up to, not including, the terminator.
func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	kw := p.advance()
	decl := &ast.VarDecl{DeclPos: kw.Pos(), Const: kw.Text() == "const"}

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	decl.Name = name

	if p.matchPunct(":") {
		if decl.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.check(token.MathematicalOp, "=") {
		p.advance()
		if decl.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
	} else if decl.Const {
		if tok, ok := p.peek(); ok {
			return nil, p.unexpected(tok, "'=' in const declaration")
		}
		return nil, p.eofError("'=' in const declaration")
	}
	return decl, nil
}

func (p *Parser) parseType() (*ast.TypeRef, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.eofError("type")
	}
	switch {
	case tok.Kind() == token.Keyword && builtinTypes[tok.Text()]:
		p.advance()
		return &ast.TypeRef{Name: tok.Text(), NamePos: tok.Pos(), Builtin: true}, nil
	case tok.Kind() == token.Identifier:
		p.advance()
		return &ast.TypeRef{Name: tok.Text(), NamePos: tok.Pos()}, nil
	}
	return nil, p.unexpected(tok, "type")
}

func (p *Parser) parseFuncDecl() (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}

	var params []*ast.Field
	if !p.checkPunct(")") {
		for {
			field, err := p.parseField()
			if err != nil {
				return nil, err
			}
			params = append(params, field)
			if !p.matchPunct(",") {
				break
			}
		}
	}
	if _, err := p.expectClose(")", lparen); err != nil {
		return nil, err
	}

	var result *ast.TypeRef
	if p.matchPunct(":") {
		if result, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{Func: kw.Pos(), Name: name, Params: params, Result: result, Body: body}, nil
}

// parseField parses "name" or "name: type".
func (p *Parser) parseField() (*ast.Field, error) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	field := &ast.Field{Name: name}
	if p.matchPunct(":") {
		if field.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	return field, nil
}

func (p *Parser) parseStructDecl() (ast.Stmt, error) {
	kw := p.advance()
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	lbrace, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}

	var fields []*ast.Field
	for !p.atEnd() && !p.checkPunct("}") {
		fname, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		fields = append(fields, &ast.Field{Name: fname, Type: typ})
	}
	if _, err := p.expectClose("}", lbrace); err != nil {
		return nil, err
	}
	return &ast.StructDecl{Struct: kw.Pos(), Name: name, Fields: fields}, nil
}

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	lbrace, err := p.expectPunct("{")
	if err != nil {
		return nil, err
	}
	stmts, err := p.parseStmtList(func() bool { return p.checkPunct("}") })
	if err != nil {
		return nil, err
	}
	rbrace, err := p.expectClose("}", lbrace)
	if err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Lbrace: lbrace.Pos(), Stmts: stmts, Rbrace: rbrace.Pos()}, nil
}

// parseCondition parses a parenthesised condition.
func (p *Parser) parseCondition() (ast.Expr, error) {
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectClose(")", lparen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIf parses an if statement together with its elif and else
// branches. Each elif becomes an IfStmt nested in the Else of the
// previous one.
func (p *Parser) parseIf() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var els ast.Stmt
	switch {
	case p.checkKeyword("elif"):
		if els, err = p.parseIf(); err != nil {
			return nil, err
		}
	case p.checkKeyword("else"):
		p.advance()
		if els, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{If: kw.Pos(), Elif: kw.Text() == "elif", Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	kw := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{While: kw.Pos(), Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	kw := p.advance()
	lparen, err := p.expectPunct("(")
	if err != nil {
		return nil, err
	}
	stmt := &ast.ForStmt{For: kw.Pos()}

	switch {
	case p.checkPunct(";"):
	case p.checkKeyword("let"):
		if stmt.Init, err = p.parseVarDecl(); err != nil {
			return nil, err
		}
	default:
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Init = &ast.ExprStmt{X: x}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	if !p.checkPunct(";") {
		if stmt.Cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	if !p.checkPunct(")") {
		if stmt.Post, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectClose(")", lparen); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	kw := p.advance()
	stmt := &ast.ReturnStmt{Return: kw.Pos()}
	if !p.atEnd() && !p.checkPunct(";") && !p.checkPunct("}") {
		var err error
		if stmt.Result, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if err := p.terminate(); err != nil {
		return nil, err
	}
	return stmt, nil
}
