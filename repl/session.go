// Package repl accumulates token records typed interactively until they
// form a complete program or expression.
package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/dhamidi/hkast/hk/parser"
	"github.com/dhamidi/hkast/hk/token"
	"github.com/dhamidi/hkast/hk/tokenstream"
	"github.com/tliron/commonlog"
)

// Session holds the records of the entry being typed.
type Session struct {
	Options frontend.Options
	lines   []string
	entries int
}

func NewSession(opts frontend.Options) *Session {
	return &Session{Options: opts}
}

// Pending reports whether records have been fed since the last Submit.
func (s *Session) Pending() bool {
	return len(s.lines) > 0
}

// Feed adds one record. A record that does not decode is rejected with its
// *tokenstream.DecodeError and not kept. Feed reports true once the pending
// records parse without running out of input and end in ';' or '}'. A
// blank line makes any pending input ready.
func (s *Session) Feed(line string) (bool, error) {
	if strings.TrimSpace(line) == "" {
		return s.Pending(), nil
	}

	probe := tokenstream.NewReader(token.NewBuffer(), tokenstream.WithLogger(commonlog.MOCK_LOGGER))
	if err := probe.Ingest(line); err != nil {
		return false, err
	}
	s.lines = append(s.lines, line)

	buf, err := s.buffer()
	if err != nil {
		return false, err
	}
	// Expressions have no terminator and are ready as soon as they parse.
	if !s.Options.Expression && !endsStatement(buf) {
		return false, nil
	}

	var p *parser.Parser
	if s.Options.Expression {
		p = parser.ParseExpression(buf, parser.WithLogger(commonlog.MOCK_LOGGER))
	} else {
		p = parser.ParseProgram(buf, parser.WithLogger(commonlog.MOCK_LOGGER))
	}
	return p.IsComplete(), nil
}

// Submit parses the pending records and clears them.
func (s *Session) Submit(ctx context.Context) (*frontend.Result, error) {
	if !s.Pending() {
		return nil, errors.New("nothing to submit")
	}
	src := strings.Join(s.lines, "\n")
	s.Reset()
	s.entries++
	return frontend.Run(ctx, fmt.Sprintf("entry %d", s.entries), strings.NewReader(src), s.Options)
}

// Reset drops the pending records.
func (s *Session) Reset() {
	s.lines = nil
}

// Entries counts submitted entries.
func (s *Session) Entries() int {
	return s.entries
}

func (s *Session) buffer() (*token.Buffer, error) {
	buf := token.NewBuffer()
	r := tokenstream.NewReader(buf, tokenstream.WithLogger(commonlog.MOCK_LOGGER))
	for _, line := range s.lines {
		if err := r.Ingest(line); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func endsStatement(buf *token.Buffer) bool {
	last, ok := buf.At(buf.Len() - 1)
	return ok && (last.Is(token.Punctuation, ";") || last.Is(token.Punctuation, "}"))
}
