package tokenstream

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/hkast/hk/token"
	"github.com/tliron/commonlog"
)

func newTestReader() *Reader {
	return NewReader(token.NewBuffer(), WithLogger(commonlog.MOCK_LOGGER))
}

func TestIngestValid(t *testing.T) {
	tests := []struct {
		raw  string
		kind token.Kind
		text string
		line int
		col  int
	}{
		{`{"token_type":"Number","value":"1","line":1,"column":1}`, token.Number, "1", 1, 1},
		{`  {"token_type":"Keyword","value":"let","line":3,"column":5}  `, token.Keyword, "let", 3, 5},
		{`{"value":"<=","column":7,"line":2,"token_type":"Relop"}`, token.Relop, "<=", 2, 7},
		{`{"token_type":"Literal","value":"hi there","line":1,"column":9,"extra":true}`, token.Literal, "hi there", 1, 9},
		{`{"token_type":"LogicalOp","value":"and","line":10,"column":12,"nested":{"a":[1,2]}}`, token.LogicalOp, "and", 10, 12},
		{`{"token_type":"Number","value":"7","line":1,"column":1,"Value":"999","LINE":40}`, token.Number, "7", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r := newTestReader()
			before := r.Buffer().Len()
			if err := r.Ingest(tt.raw); err != nil {
				t.Fatalf("Ingest: %v", err)
			}
			if got := r.Buffer().Len(); got != before+1 {
				t.Fatalf("buffer length %d, want %d", got, before+1)
			}
			tok, _ := r.Buffer().Peek(0)
			want := token.New(tt.kind, tt.text, token.Position{Line: tt.line, Column: tt.col})
			if tok != want {
				t.Errorf("got %v, want %v", tok, want)
			}
		})
	}
}

func TestIngestMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		is   error
	}{
		{"missing token_type", `{"value":"1","line":1,"column":1}`, ErrMissingField},
		{"missing value", `{"token_type":"Number","line":1,"column":1}`, ErrMissingField},
		{"missing line", `{"token_type":"Number","value":"1","column":1}`, ErrMissingField},
		{"missing column", `{"token_type":"Number","value":"1","line":1}`, ErrMissingField},
		{"uppercase keys", `{"TOKEN_TYPE":"Number","VALUE":"1","LINE":1,"COLUMN":1}`, ErrMissingField},
		{"mixed case value", `{"token_type":"Number","Value":"1","line":1,"column":1}`, ErrMissingField},
		{"null record", `null`, ErrMissingField},
		{"null value", `{"token_type":"Number","value":null,"line":1,"column":1}`, ErrMissingField},
		{"unknown kind", `{"token_type":"Operator","value":"+","line":1,"column":1}`, ErrUnknownKind},
		{"lowercase kind", `{"token_type":"number","value":"1","line":1,"column":1}`, ErrUnknownKind},
		{"string line", `{"token_type":"Number","value":"1","line":"1","column":1}`, ErrInvalidField},
		{"fractional column", `{"token_type":"Number","value":"1","line":1,"column":1.5}`, ErrInvalidField},
		{"numeric kind", `{"token_type":3,"value":"1","line":1,"column":1}`, ErrInvalidField},
		{"zero line", `{"token_type":"Number","value":"1","line":0,"column":1}`, ErrInvalidField},
		{"negative column", `{"token_type":"Number","value":"1","line":1,"column":-4}`, ErrInvalidField},
		{"empty value", `{"token_type":"Number","value":"","line":1,"column":1}`, ErrInvalidField},
		{"not json", `token_type=Number`, nil},
		{"array", `["Number","1",1,1]`, nil},
		{"trailing garbage", `{"token_type":"Number","value":"1","line":1,"column":1} x`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReader()
			err := r.Ingest(tt.raw)
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("Ingest = %v, want *DecodeError", err)
			}
			if derr.Raw != strings.TrimSpace(tt.raw) {
				t.Errorf("Raw = %q", derr.Raw)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v does not wrap %v", err, tt.is)
			}
			if r.Buffer().Len() != 0 {
				t.Errorf("buffer grew to %d on malformed record", r.Buffer().Len())
			}
			if len(r.Errors()) != 1 {
				t.Errorf("recorded %d errors, want 1", len(r.Errors()))
			}
		})
	}
}

func TestIngestBlank(t *testing.T) {
	r := newTestReader()
	if err := r.Ingest("   \t"); !errors.Is(err, ErrBlank) {
		t.Fatalf("Ingest(blank) = %v, want ErrBlank", err)
	}
	if r.Buffer().Len() != 0 || len(r.Errors()) != 0 {
		t.Error("blank record changed reader state")
	}
}

func TestIngestFrozenBuffer(t *testing.T) {
	r := newTestReader()
	r.Buffer().Freeze()
	err := r.Ingest(`{"token_type":"Number","value":"1","line":1,"column":1}`)
	if !errors.Is(err, token.ErrFrozen) {
		t.Fatalf("Ingest = %v, want ErrFrozen", err)
	}
}

func TestReadAllContinuesPastBadRecords(t *testing.T) {
	input := strings.Join([]string{
		`{"token_type":"Number","value":"1","line":1,"column":1}`,
		`{"token_type":"Bogus","value":"?","line":1,"column":2}`,
		``,
		`{"token_type":"MathematicalOp","value":"+","line":1,"column":3}`,
		`not a record`,
		`{"token_type":"Number","value":"2","line":1,"column":5}`,
	}, "\n")

	r := newTestReader()
	n, err := r.ReadAll(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if n != 3 || r.Buffer().Len() != 3 {
		t.Errorf("appended %d (buffer %d), want 3", n, r.Buffer().Len())
	}
	errs := r.Errors()
	if len(errs) != 2 {
		t.Fatalf("got %d decode errors, want 2", len(errs))
	}
	if errs[0].Line != 2 || errs[1].Line != 5 {
		t.Errorf("decode errors on lines %d and %d, want 2 and 5", errs[0].Line, errs[1].Line)
	}
}

func TestReadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestReader()
	_, err := r.ReadAll(ctx, strings.NewReader(`{"token_type":"Number","value":"1","line":1,"column":1}`))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ReadAll = %v, want context.Canceled", err)
	}
}

func TestWithStartLine(t *testing.T) {
	r := NewReader(token.NewBuffer(), WithLogger(commonlog.MOCK_LOGGER), WithStartLine(40))
	err := r.Ingest(`{}`)
	var derr *DecodeError
	if !errors.As(err, &derr) || derr.Line != 40 {
		t.Fatalf("got %v, want DecodeError on line 40", err)
	}
}

func TestRecordLines(t *testing.T) {
	src := strings.Join([]string{
		`{"token_type":"Number","value":"1","line":1,"column":1}`,
		``,
		`garbage`,
		`{"token_type":"MathematicalOp","value":"+","line":1,"column":3}`,
		`{"token_type":"Number","value":"2","line":1,"column":5}`,
	}, "\n")
	r := newTestReader()
	if _, err := r.ReadAll(context.Background(), strings.NewReader(src)); err != nil {
		t.Fatal(err)
	}
	got := r.RecordLines()
	want := []int{1, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: record line %d, want %d", i, got[i], want[i])
		}
	}
}
