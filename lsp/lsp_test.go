package lsp

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/hkast/hk/frontend"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func record(kind, value string, line, col int) string {
	return fmt.Sprintf(`{"token_type":%q,"value":%q,"line":%d,"column":%d}`, kind, value, line, col)
}

func doc(records ...string) string {
	return strings.Join(records, "\n") + "\n"
}

func run(t *testing.T, text string) *frontend.Result {
	t.Helper()
	res, err := frontend.Run(context.Background(), "test.jsonl", strings.NewReader(text), frontend.Options{Recover: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestDiagnostics(t *testing.T) {
	text := doc(
		record("Keyword", "let", 1, 1),
		"garbage",
		record("Punctuation", ";", 1, 5),
		record("Identifier", "x", 2, 1),
		record("Punctuation", ";", 2, 2),
	)
	diags := Diagnostics("file:///test.jsonl", text, run(t, text))
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}

	warn := diags[0]
	if *warn.Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("decode error severity = %v, want warning", *warn.Severity)
	}
	if warn.Range.Start.Line != 1 || warn.Range.End.Character != protocol.UInteger(len("garbage")) {
		t.Errorf("decode error range = %+v, want line 1 chars 0..7", warn.Range)
	}
	if !strings.HasPrefix(warn.Message, "skipped token record: ") {
		t.Errorf("decode error message = %q", warn.Message)
	}

	serr := diags[1]
	if *serr.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("syntax error severity = %v, want error", *serr.Severity)
	}
	if serr.Range.Start.Line != 2 {
		t.Errorf("syntax error on line %d, want the ';' record on line 2", serr.Range.Start.Line)
	}
	if !strings.Contains(serr.Message, "(at 1:5)") {
		t.Errorf("syntax error message %q does not name the source position", serr.Message)
	}
	if serr.Source == nil || *serr.Source != "hkast" {
		t.Errorf("source = %v, want hkast", serr.Source)
	}
}

func TestDiagnosticsUnclosedGroup(t *testing.T) {
	text := doc(
		record("Punctuation", "(", 1, 1),
		record("Number", "1", 1, 2),
		record("MathematicalOp", "+", 1, 4),
		record("Number", "2", 1, 6),
	)
	diags := Diagnostics("file:///group.jsonl", text, run(t, text))
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	d := diags[0]
	if d.Range.Start.Line != 3 {
		t.Errorf("end-of-input error on line %d, want the last record (3)", d.Range.Start.Line)
	}
	if len(d.RelatedInformation) != 1 {
		t.Fatalf("got %d related locations, want 1", len(d.RelatedInformation))
	}
	rel := d.RelatedInformation[0]
	if rel.Location.URI != "file:///group.jsonl" || rel.Location.Range.Start.Line != 0 {
		t.Errorf("opener location = %+v, want line 0 of the document", rel.Location)
	}
}

func TestDiagnosticsClean(t *testing.T) {
	text := doc(record("Identifier", "x", 1, 1), record("Punctuation", ";", 1, 2))
	if diags := Diagnostics("file:///ok.jsonl", text, run(t, text)); len(diags) != 0 {
		t.Errorf("got %+v, want no diagnostics", diags)
	}
}

func TestRecordRange(t *testing.T) {
	lines := splitLines("abc\r\nhé\n")
	tests := []struct {
		n    int
		line protocol.UInteger
		end  protocol.UInteger
	}{
		{1, 0, 3},
		{2, 1, 2},
		{0, 0, 3},
		{9, 2, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			r := recordRange(lines, tt.n)
			if r.Start.Line != tt.line || r.End.Line != tt.line || r.Start.Character != 0 || r.End.Character != tt.end {
				t.Errorf("got %+v, want line %d chars 0..%d", r, tt.line, tt.end)
			}
		})
	}
}

func TestSymbols(t *testing.T) {
	text := doc(
		record("Keyword", "const", 1, 1),
		record("Identifier", "limit", 1, 7),
		record("MathematicalOp", "=", 1, 13),
		record("Number", "10", 1, 15),
		record("Punctuation", ";", 1, 17),
		record("Keyword", "structure", 2, 1),
		record("Identifier", "point", 2, 11),
		record("Punctuation", "{", 2, 17),
		record("Identifier", "x", 2, 19),
		record("Punctuation", ":", 2, 21),
		record("Keyword", "num", 2, 23),
		record("Punctuation", ";", 2, 26),
		record("Punctuation", "}", 2, 28),
	)
	syms := Symbols(text, run(t, text))
	if len(syms) != 2 {
		t.Fatalf("got %d symbols, want 2: %+v", len(syms), syms)
	}
	if syms[0].Name != "limit" || syms[0].Kind != protocol.SymbolKindConstant {
		t.Errorf("first symbol = %s kind %d, want constant limit", syms[0].Name, syms[0].Kind)
	}
	if syms[0].SelectionRange.Start.Line != 1 {
		t.Errorf("limit selection on line %d, want 1", syms[0].SelectionRange.Start.Line)
	}
	st := syms[1]
	if st.Name != "point" || st.Kind != protocol.SymbolKindStruct || st.Range.Start.Line != 5 {
		t.Errorf("second symbol = %+v, want struct point on line 5", st)
	}
	if len(st.Children) != 1 || st.Children[0].Name != "x" || *st.Children[0].Detail != "num" {
		t.Errorf("struct fields = %+v, want x: num", st.Children)
	}
}

func TestServerPublishesDiagnostics(t *testing.T) {
	s := NewServer("", "test", frontend.Options{Recover: true})

	var published []protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				t.Errorf("unexpected notification %s", method)
				return
			}
			published = append(published, params.(protocol.PublishDiagnosticsParams))
		},
	}

	uri := protocol.DocumentUri("file:///doc.jsonl")
	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: doc("garbage")},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: doc(record("Identifier", "x", 1, 1))},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.document(uri) == nil {
		t.Fatal("document not tracked after change")
	}
	err = s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.document(uri) != nil {
		t.Error("document still tracked after close")
	}

	wantCounts := []int{1, 0, 0}
	if len(published) != len(wantCounts) {
		t.Fatalf("got %d publications, want %d", len(published), len(wantCounts))
	}
	for i, want := range wantCounts {
		if published[i].URI != uri {
			t.Errorf("publication %d for %s", i, published[i].URI)
		}
		if got := len(published[i].Diagnostics); got != want {
			t.Errorf("publication %d has %d diagnostics, want %d", i, got, want)
		}
	}
}
