package parser

import (
	"fmt"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/token"
)

// exprState tracks where parseBinary is within one precedence level. It
// only moves forward by consuming a token, which bounds the loop by the
// number of tokens.
type exprState int

const (
	expectPrimary exprState = iota
	haveOperand
	expectOperand
)

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(0, expectPrimary, token.Token{})
}

// parseBinary is a precedence climber. It parses an operand, then folds
// in every following infix operator whose binding power is at least
// minBP. Left-associative operators parse their right side at bp+1,
// right-associative ones at bp. Non-associative operators also parse at
// bp+1 and then refuse a second operator of the same power.
//
// state and after describe how the leading operand was reached, so an
// error can name the operator that is missing its right side.
func (p *Parser) parseBinary(minBP int, state exprState, after token.Token) (ast.Expr, error) {
	left, err := p.parseUnary(state, after)
	if err != nil {
		return nil, err
	}
	state = haveOperand

	for state == haveOperand {
		opTok, ok := p.peek()
		if !ok {
			break
		}
		op, isOp := lookupOperator(opTok)
		if !isOp || op.bp < minBP {
			break
		}
		if op.bp == bpAssign && !assignable(left) {
			return nil, &SyntaxError{
				Msg:      fmt.Sprintf("cannot assign to %s", left.Kind()),
				Expected: "identifier",
				Pos:      opTok.Pos(),
				Got:      &opTok,
			}
		}
		p.advance()
		state = expectOperand

		next := op.bp + 1
		if op.assoc == assocRight {
			next = op.bp
		}
		right, err := p.parseBinary(next, state, opTok)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{X: left, Op: opTok, Y: right}
		state = haveOperand

		if op.assoc != assocNone {
			continue
		}
		if after, ok := p.peek(); ok {
			if nop, isOp := lookupOperator(after); isOp && nop.bp == op.bp {
				return nil, &SyntaxError{
					Msg:      fmt.Sprintf("comparison operators cannot be chained: '%s' follows '%s'", after.Text(), opTok.Text()),
					Expected: "parenthesised comparison",
					Pos:      after.Pos(),
					Got:      &after,
				}
			}
		}
	}
	return left, nil
}

func assignable(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Identifier, *ast.SelectorExpr:
		return true
	case *ast.UnaryExpr:
		// dataAt(p) = v stores through a pointer.
		return x.Op == "dataAt"
	}
	return false
}

func expectedOperand(state exprState, after token.Token) string {
	if state == expectOperand && !after.IsZero() {
		return fmt.Sprintf("operand after '%s'", after.Text())
	}
	return "expression"
}

func (p *Parser) parseUnary(state exprState, after token.Token) (ast.Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.eofError(expectedOperand(state, after))
	}
	if tok.Is(token.MathematicalOp, "-") || tok.Is(token.Keyword, "addrOf") || tok.Is(token.Keyword, "dataAt") {
		p.advance()
		x, err := p.parseUnary(expectOperand, tok)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: tok.Text(), OpPos: tok.Pos(), X: x}, nil
	}
	return p.parsePostfix(state, after)
}

func (p *Parser) parsePostfix(state exprState, after token.Token) (ast.Expr, error) {
	x, err := p.parsePrimary(state, after)
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.checkPunct("("):
			x, err = p.parseCall(x)
		case p.checkPunct("."):
			x, err = p.parseSelector(x)
		default:
			return x, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseSelector(x ast.Expr) (ast.Expr, error) {
	dot := p.advance()
	tok, ok := p.peek()
	if !ok {
		return nil, p.eofError("field name after '.'")
	}
	if tok.Kind() != token.Identifier {
		return nil, p.unexpected(tok, "field name after '.'")
	}
	p.advance()
	sel := &ast.Identifier{Name: tok.Text(), NamePos: tok.Pos()}
	return &ast.SelectorExpr{X: x, Dot: dot.Pos(), Sel: sel}, nil
}

func (p *Parser) parseCall(fun ast.Expr) (ast.Expr, error) {
	lparen := p.advance()
	var args []ast.Expr
	if !p.checkPunct(")") {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.matchPunct(",") {
				break
			}
		}
	}
	rparen, err := p.expectClose(")", lparen)
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Fun: fun, Lparen: lparen.Pos(), Args: args, Rparen: rparen.Pos()}, nil
}

func (p *Parser) parsePrimary(state exprState, after token.Token) (ast.Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.eofError(expectedOperand(state, after))
	}

	switch tok.Kind() {
	case token.Number:
		p.advance()
		return &ast.Literal{LitKind: ast.LitNumber, Value: tok.Text(), ValuePos: tok.Pos()}, nil
	case token.Literal:
		p.advance()
		return &ast.Literal{LitKind: ast.LitString, Value: tok.Text(), ValuePos: tok.Pos()}, nil
	case token.Identifier:
		p.advance()
		return &ast.Identifier{Name: tok.Text(), NamePos: tok.Pos()}, nil
	case token.Keyword:
		if tok.Text() == "nothing" {
			p.advance()
			return &ast.Literal{LitKind: ast.LitNothing, Value: tok.Text(), ValuePos: tok.Pos()}, nil
		}
	case token.Punctuation:
		if tok.Text() == "(" {
			return p.parseGrouping()
		}
	case token.Relop, token.MathematicalOp, token.LogicalOp:
	default:
		panic(fmt.Sprintf("parser: unhandled token kind %v", tok.Kind()))
	}
	return nil, p.unexpected(tok, expectedOperand(state, after))
}

func (p *Parser) parseGrouping() (ast.Expr, error) {
	lparen := p.advance()
	if p.atEnd() {
		_, err := p.expectClose(")", lparen)
		return nil, err
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expectClose(")", lparen)
	if err != nil {
		return nil, err
	}
	return &ast.Grouping{Lparen: lparen.Pos(), X: x, Rparen: rparen.Pos()}, nil
}
