// Package grammar holds the EBNF description of the language accepted by
// package parser, verifies it with golang.org/x/exp/ebnf, and recognizes
// token streams against it.
package grammar

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"sync"

	"github.com/dhamidi/hkast/hk/token"
	"golang.org/x/exp/ebnf"
)

// Start is the start production of the embedded grammar.
const Start = "Program"

const filename = "grammar.ebnf"

//go:embed grammar.ebnf
var source []byte

// Source returns the embedded grammar text.
func Source() []byte {
	return bytes.Clone(source)
}

// Parse parses the embedded grammar.
func Parse() (ebnf.Grammar, error) {
	return ebnf.Parse(filename, bytes.NewReader(source))
}

var embedded = sync.OnceValues(func() (*Recognizer, error) {
	g, err := Parse()
	if err != nil {
		return nil, err
	}
	return NewRecognizer(g, Start)
})

// Recognize reports whether toks form a Program according to the embedded
// grammar. The grammar is looser than the parser in two places: a ';' may
// be left out between any two statements, and any Or expression may be
// assigned to.
func Recognize(toks []token.Token) error {
	r, err := embedded()
	if err != nil {
		return err
	}
	return r.Recognize(toks)
}

// Check parses the embedded grammar and verifies it from Start.
func Check() error {
	return CheckReader(filename, bytes.NewReader(source), Start)
}

// CheckReader parses the grammar in src and, when start is not empty,
// verifies that every production is defined and reachable from start.
func CheckReader(name string, src io.Reader, start string) error {
	g, err := ebnf.Parse(name, src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if start == "" {
		return nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return fmt.Errorf("verify %s: %w", name, err)
	}
	return nil
}

// Productions returns the production names of g in sorted order.
func Productions(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Errors splits an error returned by CheckReader into its individual
// messages. ebnf reports all problems found as one slice-typed error.
func Errors(err error) []string {
	if err == nil {
		return nil
	}
	inner := err
	for errors.Unwrap(inner) != nil {
		inner = errors.Unwrap(inner)
	}
	v := reflect.ValueOf(inner)
	if v.Kind() != reflect.Slice {
		return []string{inner.Error()}
	}
	msgs := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		msgs = append(msgs, fmt.Sprint(v.Index(i).Interface()))
	}
	return msgs
}
