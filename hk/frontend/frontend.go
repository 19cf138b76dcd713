// Package frontend runs the whole pipeline for one input: ingest the token
// stream, freeze the buffer, parse.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dhamidi/hkast/hk/ast"
	"github.com/dhamidi/hkast/hk/parser"
	"github.com/dhamidi/hkast/hk/token"
	"github.com/dhamidi/hkast/hk/tokenstream"
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("hkast.frontend")

type Options struct {
	// Recover enables statement-level error recovery in the parser.
	Recover bool
	// MaxErrors stops a recovering parse after that many errors. Zero
	// means no limit.
	MaxErrors int
	// Expression parses the input as a single expression instead of a
	// program.
	Expression bool
	// Jobs bounds how many files RunFiles parses at once. Zero or less
	// means one per file.
	Jobs int
}

// Result is everything one run produced. Exactly one of Program and Expr
// is set when parsing produced a tree.
type Result struct {
	ID           string
	Name         string
	Tokens       []token.Token
	RecordLines  []int // input line of each token's record
	Program      *ast.Program
	Expr         ast.Expr
	DecodeErrors []*tokenstream.DecodeError
	SyntaxErrors parser.ErrorList
}

// Root returns the parsed tree, or nil.
func (r *Result) Root() ast.Node {
	if r.Expr != nil {
		return r.Expr
	}
	if r.Program != nil {
		return r.Program
	}
	return nil
}

// OK reports whether the run saw no decode or syntax errors.
func (r *Result) OK() bool {
	return len(r.DecodeErrors) == 0 && len(r.SyntaxErrors) == 0
}

// Run ingests r and parses the tokens. Malformed records and syntax errors
// are reported in the Result; the returned error is reserved for read
// failures and cancellation.
func Run(ctx context.Context, name string, r io.Reader, opts Options) (*Result, error) {
	res := &Result{ID: uuid.New().String(), Name: name}
	runLog := commonlog.NewKeyValueLogger(log, "run", res.ID, "input", name)

	buf := token.NewBuffer()
	reader := tokenstream.NewReader(buf, tokenstream.WithLogger(runLog))
	n, err := reader.ReadAll(ctx, r)
	res.DecodeErrors = reader.Errors()
	if err != nil {
		return res, fmt.Errorf("ingest %s: %w", name, err)
	}
	res.Tokens = buf.Tokens()
	res.RecordLines = reader.RecordLines()
	runLog.Debug("ingested token stream", "tokens", n, "decodeErrors", len(res.DecodeErrors))

	if err := ctx.Err(); err != nil {
		return res, err
	}

	popts := []parser.Option{
		parser.WithRecovery(opts.Recover),
		parser.WithMaxErrors(opts.MaxErrors),
		parser.WithLogger(runLog),
	}
	var p *parser.Parser
	if opts.Expression {
		p = parser.ParseExpression(buf, popts...)
	} else {
		p = parser.ParseProgram(buf, popts...)
	}

	root, err := p.Finish()
	switch root := root.(type) {
	case *ast.Program:
		res.Program = root
	case ast.Expr:
		res.Expr = root
	}
	if err != nil {
		res.SyntaxErrors = syntaxErrors(err)
	}
	runLog.Info("parsed", "syntaxErrors", len(res.SyntaxErrors))
	return res, nil
}

func syntaxErrors(err error) parser.ErrorList {
	switch err := err.(type) {
	case parser.ErrorList:
		return err
	case *parser.SyntaxError:
		return parser.ErrorList{err}
	}
	return parser.ErrorList{{Msg: err.Error()}}
}

// RunFile opens path and runs it.
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open token stream: %w", err)
	}
	defer f.Close()
	return Run(ctx, path, f, opts)
}

// RunFiles runs every path concurrently, each with its own buffer and
// parser. Results are in the order of paths. Read failures are joined
// into the returned error; a file that could not be opened, or was not
// started before ctx was cancelled, has a nil entry.
func RunFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results, errs := runEach(ctx, paths, opts)
	return results, errors.Join(errs...)
}

// runEach is RunFiles with the error for each path kept separate.
func runEach(ctx context.Context, paths []string, opts Options) ([]*Result, []error) {
	results := make([]*Result, len(paths))
	errs := make([]error, len(paths))

	jobs := opts.Jobs
	if jobs <= 0 || jobs > len(paths) {
		jobs = len(paths)
	}
	sem := make(chan struct{}, max(jobs, 1))

	var wg sync.WaitGroup
	for i, path := range paths {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			errs[i] = ctx.Err()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = RunFile(ctx, path, opts)
		}()
	}
	wg.Wait()

	return results, errs
}
