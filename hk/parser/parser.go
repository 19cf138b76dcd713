package parser

import (
	"errors"
	"fmt"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/token"
	"github.com/tliron/commonlog"
)

type Option func(*Parser)

// WithRecovery enables statement-level error recovery. When enabled the
// parser records each syntax error, skips to the next statement boundary
// and keeps going. When disabled the first error ends the parse.
func WithRecovery(enabled bool) Option {
	return func(p *Parser) {
		p.recover = enabled
	}
}

// WithMaxErrors stops parsing once n errors have been recorded. Zero
// means no limit. Only meaningful with recovery enabled.
func WithMaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErrors = n
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

type parseFunc func(*Parser) (ast.Node, error)

// Parser builds a tree from a token buffer. It freezes the buffer on
// construction and never appends to it.
//
// A Parser is not safe for concurrent use. Create separate buffers and
// parsers for concurrent parsing of different inputs.
type Parser struct {
	buf       *token.Buffer
	start     token.Mark
	entry     parseFunc
	recover   bool
	maxErrors int
	log       commonlog.Logger
	errs      ErrorList
	halted    bool
}

func newParser(buf *token.Buffer, entry parseFunc, opts []Option) *Parser {
	buf.Freeze()
	p := &Parser{
		buf:   buf,
		start: buf.Mark(),
		entry: entry,
		log:   commonlog.GetLogger("hkast.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseProgram returns a parser whose Finish yields an *ast.Program.
func ParseProgram(buf *token.Buffer, opts ...Option) *Parser {
	return newParser(buf, (*Parser).parseProgram, opts)
}

// ParseExpression returns a parser whose Finish yields a single ast.Expr.
func ParseExpression(buf *token.Buffer, opts ...Option) *Parser {
	return newParser(buf, (*Parser).parseStandaloneExpr, opts)
}

// Finish parses the whole buffer.
//
// With recovery disabled it returns either the root node and a nil error,
// or a nil node and the first *SyntaxError. With recovery enabled it always
// returns the root, possibly with BadStmt placeholders, and an ErrorList
// when any error was recorded.
func (p *Parser) Finish() (ast.Node, error) {
	p.buf.Reset(p.start)
	p.errs = nil
	p.halted = false

	root, err := p.entry(p)
	if err != nil {
		if p.recover {
			// An error that escaped the statement loop, e.g. from
			// ParseExpression, still belongs in the list.
			p.record(err)
			return root, p.errs
		}
		return nil, err
	}
	if p.recover {
		return root, p.errs.Err()
	}
	return root, nil
}

// Errors returns the errors recorded by the last Finish.
func (p *Parser) Errors() ErrorList {
	return p.errs
}

// IsComplete reports whether the buffered tokens form a complete input,
// that is whether parsing them does not run out of tokens inside an open
// construct. Input with errors elsewhere counts as complete. The cursor is
// restored afterwards.
func (p *Parser) IsComplete() bool {
	mark := p.buf.Mark()
	savedRecover, savedLog, savedErrs, savedHalted := p.recover, p.log, p.errs, p.halted
	defer func() {
		p.buf.Reset(mark)
		p.recover, p.log, p.errs, p.halted = savedRecover, savedLog, savedErrs, savedHalted
	}()

	p.buf.Reset(p.start)
	p.recover = false
	p.log = commonlog.MOCK_LOGGER
	_, err := p.entry(p)
	if serr, ok := err.(*SyntaxError); ok {
		return !serr.AtEOF
	}
	return true
}

// Program parses buf as a sequence of statements.
func Program(buf *token.Buffer, opts ...Option) (*ast.Program, error) {
	root, err := ParseProgram(buf, opts...).Finish()
	prog, _ := root.(*ast.Program)
	return prog, err
}

// Expression parses buf as a single expression.
func Expression(buf *token.Buffer, opts ...Option) (ast.Expr, error) {
	root, err := ParseExpression(buf, opts...).Finish()
	expr, _ := root.(ast.Expr)
	return expr, err
}

func (p *Parser) parseProgram() (ast.Node, error) {
	stmts, err := p.parseStmtList(func() bool { return false })
	if err != nil && !errors.Is(err, errHalted) {
		return nil, err
	}
	return &ast.Program{Stmts: stmts}, nil
}

// parseStandaloneExpr parses the whole buffer as one expression. With
// recovery enabled a failed expression is returned as a BadExpr spanning
// the input, and trailing tokens are reported after the parsed expression.
func (p *Parser) parseStandaloneExpr() (ast.Node, error) {
	first, _ := p.peek()
	x, err := p.parseExpr()
	if err != nil {
		if !p.recover {
			return nil, err
		}
		bad := &ast.BadExpr{From: first.Pos(), To: p.eofPos()}
		if first.IsZero() {
			bad.From = p.eofPos()
		}
		return bad, err
	}
	p.matchPunct(";")
	if tok, ok := p.peek(); ok {
		return x, p.unexpected(tok, "end of input")
	}
	return x, nil
}

func (p *Parser) peek() (token.Token, bool) {
	return p.buf.Peek(0)
}

func (p *Parser) advance() token.Token {
	tok, _ := p.buf.Advance()
	return tok
}

func (p *Parser) atEnd() bool {
	return p.buf.AtEnd()
}

func (p *Parser) check(kind token.Kind, text string) bool {
	tok, ok := p.peek()
	return ok && tok.Is(kind, text)
}

func (p *Parser) checkPunct(text string) bool {
	return p.check(token.Punctuation, text)
}

func (p *Parser) checkKeyword(text string) bool {
	return p.check(token.Keyword, text)
}

func (p *Parser) matchPunct(text string) bool {
	if p.checkPunct(text) {
		p.advance()
		return true
	}
	return false
}

// expectPunct consumes the punctuation text or reports what was found
// instead.
func (p *Parser) expectPunct(text string) (token.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return token.Token{}, p.eofError(fmt.Sprintf("'%s'", text))
	}
	if !tok.Is(token.Punctuation, text) {
		return token.Token{}, p.unexpected(tok, fmt.Sprintf("'%s'", text))
	}
	return p.advance(), nil
}

// expectClose consumes the closer matching opener, naming the opener in
// the error when it is missing.
func (p *Parser) expectClose(closer string, opener token.Token) (token.Token, error) {
	tok, ok := p.peek()
	if ok && tok.Is(token.Punctuation, closer) {
		return p.advance(), nil
	}
	openPos := opener.Pos()
	expected := fmt.Sprintf("'%s'", closer)
	if !ok {
		err := p.eofError(expected)
		err.Msg = fmt.Sprintf("expected '%s' to close '%s' opened at %s, found end of input", closer, opener.Text(), openPos)
		err.Opener = &openPos
		return token.Token{}, err
	}
	err := p.unexpected(tok, expected)
	err.Msg = fmt.Sprintf("expected '%s' to close '%s' opened at %s, found %s", closer, opener.Text(), openPos, describe(tok))
	err.Opener = &openPos
	return token.Token{}, err
}

func (p *Parser) expectIdentifier() (*ast.Identifier, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.eofError("identifier")
	}
	if tok.Kind() != token.Identifier {
		return nil, p.unexpected(tok, "identifier")
	}
	p.advance()
	return &ast.Identifier{Name: tok.Text(), NamePos: tok.Pos()}, nil
}

// eofPos is the position just past the last token of the stream.
func (p *Parser) eofPos() token.Position {
	if last, ok := p.buf.At(p.buf.Len() - 1); ok {
		return last.End()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Parser) eofError(expected string) *SyntaxError {
	return &SyntaxError{
		Msg:      fmt.Sprintf("expected %s, found end of input", expected),
		Expected: expected,
		Pos:      p.eofPos(),
		AtEOF:    true,
	}
}

func (p *Parser) unexpected(tok token.Token, expected string) *SyntaxError {
	return &SyntaxError{
		Msg:      fmt.Sprintf("expected %s, found %s", expected, describe(tok)),
		Expected: expected,
		Pos:      tok.Pos(),
		Got:      &tok,
	}
}

// record adds err to the error list. It reports false once the error limit
// has been reached, after which parsing stops.
func (p *Parser) record(err error) bool {
	serr, ok := err.(*SyntaxError)
	if !ok {
		serr = &SyntaxError{Msg: err.Error(), Pos: p.eofPos()}
	}
	p.errs = append(p.errs, serr)
	if p.maxErrors > 0 && len(p.errs) >= p.maxErrors {
		p.halted = true
		p.log.Warningf("stopping after %d syntax errors", len(p.errs))
		return false
	}
	return true
}

// synchronize skips to the next statement boundary after a failed
// statement that began at start. A ';' is consumed; a '}' or a
// statement keyword is left for the caller. At least one token is always
// consumed so the caller makes progress. A statement that failed after
// consuming a closing '}' has already reached its boundary.
func (p *Parser) synchronize(start token.Mark) {
	if p.buf.Mark() == start {
		if !p.atEnd() {
			p.advance()
		}
	} else if last, ok := p.buf.Last(); ok && last.Is(token.Punctuation, "}") {
		return
	}
	for !p.atEnd() {
		tok, _ := p.peek()
		if tok.Is(token.Punctuation, ";") {
			p.advance()
			return
		}
		if tok.Is(token.Punctuation, "}") || startsStatement(tok) {
			return
		}
		p.advance()
	}
}
