package grammar

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/hkast/hk/token"
	"golang.org/x/exp/ebnf"
)

// lexicalKinds maps the lexical productions that syntactic productions may
// reference to the token kind that stands for them.
var lexicalKinds = map[string]token.Kind{
	"identifier": token.Identifier,
	"number":     token.Number,
	"literal":    token.Literal,
	"relop":      token.Relop,
}

// symbol is a grammar symbol after the EBNF has been flattened to plain
// rules. A symbol with a name and no terminal flag is a nonterminal.
type symbol struct {
	name     string
	terminal bool
	class    bool       // matches any token of kind
	kind     token.Kind // when class
}

func (s symbol) matches(tok token.Token) bool {
	if s.class {
		return tok.Kind() == s.kind
	}
	switch tok.Kind() {
	case token.Identifier:
		return token.IsSoftKeyword(s.name) && tok.Text() == s.name
	case token.Number, token.Literal:
		return false
	}
	return tok.Text() == s.name
}

func (s symbol) String() string {
	if s.terminal && !s.class {
		return "'" + s.name + "'"
	}
	return s.name
}

type rule struct {
	lhs string
	rhs []symbol
}

// A Recognizer decides whether a token sequence is derivable from a
// grammar's start production. Repetitions, options and groups are
// rewritten into fresh rules, and the resulting rules are run through an
// Earley chart, so the grammar may be ambiguous or left recursive.
type Recognizer struct {
	start    string
	rules    []rule
	byLHS    map[string][]int
	nullable map[string]bool
}

// NewRecognizer compiles the syntactic productions of g. Lexical
// productions are matched by token kind and must be one of identifier,
// number, literal or relop.
func NewRecognizer(g ebnf.Grammar, start string) (*Recognizer, error) {
	if _, ok := g[start]; !ok {
		return nil, fmt.Errorf("no start production %s", start)
	}
	c := &compiler{g: g, r: &Recognizer{start: start, byLHS: make(map[string][]int)}}
	for _, name := range Productions(g) {
		if isLexical(name) {
			continue
		}
		c.production(name, g[name].Expr)
	}
	if c.err != nil {
		return nil, c.err
	}
	c.r.computeNullable()
	return c.r, nil
}

type compiler struct {
	g     ebnf.Grammar
	r     *Recognizer
	fresh int
	err   error
}

func (c *compiler) fail(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf(format, args...)
	}
}

func (c *compiler) add(lhs string, rhs []symbol) {
	c.r.byLHS[lhs] = append(c.r.byLHS[lhs], len(c.r.rules))
	c.r.rules = append(c.r.rules, rule{lhs: lhs, rhs: rhs})
}

func (c *compiler) newName() string {
	c.fresh++
	return fmt.Sprintf("#%d", c.fresh)
}

func (c *compiler) production(name string, expr ebnf.Expression) {
	for _, alt := range alternatives(expr) {
		c.add(name, c.sequence(alt))
	}
}

func (c *compiler) sequence(expr ebnf.Expression) []symbol {
	switch e := expr.(type) {
	case nil:
		return nil
	case ebnf.Sequence:
		syms := make([]symbol, 0, len(e))
		for _, x := range e {
			syms = append(syms, c.symbol(x))
		}
		return syms
	}
	return []symbol{c.symbol(expr)}
}

func (c *compiler) symbol(expr ebnf.Expression) symbol {
	switch e := expr.(type) {
	case nil:
		c.fail("empty expression")
		return symbol{}
	case *ebnf.Token:
		return symbol{name: e.String, terminal: true}
	case *ebnf.Name:
		if kind, ok := lexicalKinds[e.String]; ok {
			return symbol{name: e.String, terminal: true, class: true, kind: kind}
		}
		if isLexical(e.String) {
			c.fail("%s: lexical production %s has no token kind", e.Pos(), e.String)
		} else if _, ok := c.g[e.String]; !ok {
			c.fail("%s: undefined production %s", e.Pos(), e.String)
		}
		return symbol{name: e.String}
	case *ebnf.Group:
		name := c.newName()
		c.production(name, e.Body)
		return symbol{name: name}
	case *ebnf.Option:
		name := c.newName()
		c.add(name, nil)
		c.production(name, e.Body)
		return symbol{name: name}
	case *ebnf.Repetition:
		name := c.newName()
		c.add(name, nil)
		for _, alt := range alternatives(e.Body) {
			c.add(name, append(c.sequence(alt), symbol{name: name}))
		}
		return symbol{name: name}
	case ebnf.Sequence, ebnf.Alternative:
		name := c.newName()
		c.production(name, e)
		return symbol{name: name}
	}
	c.fail("%s: unsupported expression %T", expr.Pos(), expr)
	return symbol{}
}

func alternatives(expr ebnf.Expression) []ebnf.Expression {
	if alt, ok := expr.(ebnf.Alternative); ok {
		return alt
	}
	return []ebnf.Expression{expr}
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

func (r *Recognizer) computeNullable() {
	r.nullable = make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, rl := range r.rules {
			if r.nullable[rl.lhs] {
				continue
			}
			empty := true
			for _, s := range rl.rhs {
				if s.terminal || !r.nullable[s.name] {
					empty = false
					break
				}
			}
			if empty {
				r.nullable[rl.lhs] = true
				changed = true
			}
		}
	}
}

// RecognizeError reports the furthest token the grammar could not extend
// a derivation over.
type RecognizeError struct {
	Pos      token.Position
	AtEOF    bool
	Got      *token.Token
	Expected []string
}

func (e *RecognizeError) Error() string {
	found := "end of input"
	if e.Got != nil {
		found = fmt.Sprintf("%s '%s'", strings.ToLower(e.Got.Kind().String()), e.Got.Text())
	}
	if len(e.Expected) == 0 {
		return fmt.Sprintf("%s: grammar does not accept %s", e.Pos, found)
	}
	return fmt.Sprintf("%s: grammar expects %s, found %s", e.Pos, strings.Join(e.Expected, " or "), found)
}

type item struct {
	rule   int
	dot    int
	origin int
}

// Recognize returns nil when toks derive from the start production and a
// *RecognizeError otherwise.
func (r *Recognizer) Recognize(toks []token.Token) error {
	n := len(toks)
	sets := make([][]item, n+1)
	seen := make([]map[item]bool, n+1)
	for i := range seen {
		seen[i] = make(map[item]bool)
	}
	add := func(i int, it item) {
		if !seen[i][it] {
			seen[i][it] = true
			sets[i] = append(sets[i], it)
		}
	}

	for _, ri := range r.byLHS[r.start] {
		add(0, item{rule: ri, origin: 0})
	}
	for i := 0; i <= n; i++ {
		for j := 0; j < len(sets[i]); j++ {
			it := sets[i][j]
			rl := r.rules[it.rule]

			if it.dot == len(rl.rhs) {
				for k := 0; k < len(sets[it.origin]); k++ {
					waiting := sets[it.origin][k]
					wr := r.rules[waiting.rule]
					if waiting.dot < len(wr.rhs) && !wr.rhs[waiting.dot].terminal && wr.rhs[waiting.dot].name == rl.lhs {
						add(i, item{waiting.rule, waiting.dot + 1, waiting.origin})
					}
				}
				continue
			}

			next := rl.rhs[it.dot]
			if next.terminal {
				if i < n && next.matches(toks[i]) {
					add(i+1, item{it.rule, it.dot + 1, it.origin})
				}
				continue
			}
			for _, ri := range r.byLHS[next.name] {
				add(i, item{rule: ri, origin: i})
			}
			// Items predicted after a nullable rule completed would
			// otherwise never see that completion.
			if r.nullable[next.name] {
				add(i, item{it.rule, it.dot + 1, it.origin})
			}
		}
	}

	for _, it := range sets[n] {
		rl := r.rules[it.rule]
		if it.origin == 0 && rl.lhs == r.start && it.dot == len(rl.rhs) {
			return nil
		}
	}
	return r.failure(toks, sets)
}

func (r *Recognizer) failure(toks []token.Token, sets [][]item) error {
	k := len(toks)
	for k > 0 && len(sets[k]) == 0 {
		k--
	}

	want := make(map[string]bool)
	for _, it := range sets[k] {
		rl := r.rules[it.rule]
		if it.dot < len(rl.rhs) && rl.rhs[it.dot].terminal {
			want[rl.rhs[it.dot].String()] = true
		}
	}
	expected := make([]string, 0, len(want))
	for s := range want {
		expected = append(expected, s)
	}
	sort.Strings(expected)

	err := &RecognizeError{Expected: expected}
	if k < len(toks) {
		tok := toks[k]
		err.Got = &tok
		err.Pos = tok.Pos()
		return err
	}
	err.AtEOF = true
	err.Pos = token.Position{Line: 1, Column: 1}
	if k > 0 {
		err.Pos = toks[k-1].End()
	}
	return err
}
