// Package parser builds an ast.Program from a buffer of pre-lexed tokens.
//
// # Overview
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│ tokenstream │────▶│ token.Buffer│────▶│   Parser    │
//	│ (JSON lines)│     │  (frozen)   │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// Statements are parsed by recursive descent, dispatching on the leading
// keyword. Expressions are parsed by precedence climbing over a fixed
// table of binding powers:
//
//	=                                  10  right
//	or                                 20  left
//	xor                                25  left
//	and                                30  left
//	bitwiseOr                          40  left
//	bitwiseXor                         45  left
//	bitwiseAnd                         50  left
//	== != < <= > >=                    60  none
//	+ -                                70  left
//	* / %                              80  left
//	^                                  90  left
//
// Relational operators do not associate: "a < b < c" is an error.
//
// # Usage
//
//	buf := token.NewBuffer()
//	r := tokenstream.NewReader(buf)
//	r.ReadAll(ctx, os.Stdin)
//	prog, err := parser.Program(buf, parser.WithRecovery(true))
//
// Program and Expression are shorthands for ParseProgram(...).Finish()
// and ParseExpression(...).Finish().
//
// # Errors
//
// Without recovery the first *SyntaxError ends the parse and no tree is
// returned. With recovery the parser records the error, replaces the
// statement with an ast.BadStmt, skips to the next ';', '}' or statement
// keyword, and continues. Finish then returns the tree together with an
// ErrorList.
//
// A parse that runs out of tokens inside an open construct reports
// AtEOF, positioned just past the last token. IsComplete uses this to tell
// an interactive caller that more input is needed.
package parser
