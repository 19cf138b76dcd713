// Package tokenstream ingests line-delimited token records into a
// token.Buffer.
//
// Each line holds one JSON object:
//
//	{"token_type":"Number","value":"1","line":1,"column":1}
//
// A record that cannot be decoded is reported as a *DecodeError and
// skipped; it never stops ingestion of the lines that follow.
package tokenstream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/hkast/hk/token"
	"github.com/tliron/commonlog"
)

// ErrBlank is returned by Ingest for a record that is empty after trimming.
// Nothing is appended.
var ErrBlank = errors.New("blank record")

const maxRecordSize = 1 << 20

// DecodeError reports a record that could not be turned into a token.
type DecodeError struct {
	Line  int    // 1-based input line, counting every Ingest call
	Raw   string // the trimmed record text
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: cannot decode token record: %v: %s", e.Line, e.Cause, e.Raw)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

type Option func(*Reader)

func WithLogger(log commonlog.Logger) Option {
	return func(r *Reader) {
		r.log = log
	}
}

// WithStartLine sets the input line number of the first record (default 1).
func WithStartLine(line int) Option {
	return func(r *Reader) {
		r.line = line - 1
	}
}

// Reader decodes records and appends them to its buffer.
type Reader struct {
	buf   *token.Buffer
	log   commonlog.Logger
	line  int
	lines []int
	errs  []*DecodeError
}

func NewReader(buf *token.Buffer, opts ...Option) *Reader {
	r := &Reader{
		buf: buf,
		log: commonlog.GetLogger("hkast.tokenstream"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reader) Buffer() *token.Buffer {
	return r.buf
}

// Errors returns every DecodeError produced so far, in input order.
func (r *Reader) Errors() []*DecodeError {
	return r.errs
}

// RecordLines returns, for each token appended so far, the input line of
// the record it was decoded from.
func (r *Reader) RecordLines() []int {
	return r.lines
}

// Ingest decodes a single record and appends the resulting token. A
// malformed record yields a *DecodeError and leaves the buffer unchanged.
func (r *Reader) Ingest(raw string) error {
	r.line++
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrBlank
	}

	tok, err := decodeRecord(raw)
	if err != nil {
		derr := &DecodeError{Line: r.line, Raw: raw, Cause: err}
		r.errs = append(r.errs, derr)
		r.log.Warning("skipping malformed token record", "line", r.line, "cause", err.Error())
		return derr
	}
	if err := r.buf.Append(tok); err != nil {
		return err
	}
	r.lines = append(r.lines, r.line)
	r.log.Debugf("ingested %s", tok)
	return nil
}

// ReadAll ingests every line of src. Decode errors are collected and
// logged; the returned error is non-nil only when reading fails, the
// buffer is frozen, or ctx is done. The count is the number of tokens
// appended.
func (r *Reader) ReadAll(ctx context.Context, src io.Reader) (int, error) {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	n := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		err := r.Ingest(scanner.Text())
		var derr *DecodeError
		switch {
		case err == nil:
			n++
		case errors.Is(err, ErrBlank), errors.As(err, &derr):
		default:
			return n, err
		}
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("read token stream: %w", err)
	}
	return n, nil
}
